// Package store — sqlite.go: хранилище в файле SQLite для одного узла.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS user_meta (
    user_id    TEXT NOT NULL,
    meta_key   TEXT NOT NULL,
    meta_value TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ', 'now')),
    PRIMARY KEY (user_id, meta_key)
);
`

// SQLite — хранилище поверх database/sql и modernc.org/sqlite.
// Одно соединение: транзакции выполняются строго по очереди.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite открывает (и создаёт при отсутствии) базу и схему.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Transact выполняет fn внутри SQL-транзакции.
func (s *SQLite) Transact(ctx context.Context, userID string, fn func(Tx) error) error {
	if err := checkUserID(userID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(&sqliteTx{tx: tx, userID: userID}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}

func (s *SQLite) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT user_id FROM user_meta ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type sqliteTx struct {
	tx     *sql.Tx
	userID string
}

func (t *sqliteTx) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw string
	err := t.tx.QueryRowContext(ctx,
		"SELECT meta_value FROM user_meta WHERE user_id = ? AND meta_key = ?",
		t.userID, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return []byte(raw), true, nil
}

func (t *sqliteTx) Set(ctx context.Context, key string, value []byte) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO user_meta (user_id, meta_key, meta_value, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%fZ', 'now'))
		ON CONFLICT (user_id, meta_key)
		DO UPDATE SET meta_value = excluded.meta_value, updated_at = excluded.updated_at
	`, t.userID, key, string(value))
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (t *sqliteTx) Delete(ctx context.Context, key string) error {
	if _, err := t.tx.ExecContext(ctx,
		"DELETE FROM user_meta WHERE user_id = ? AND meta_key = ?", t.userID, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
