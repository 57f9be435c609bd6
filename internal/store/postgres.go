// Package store — postgres.go: хранилище в таблице user_meta.
// Запись пользователя сериализуется транзакционной advisory-блокировкой
// по хешу user_id.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres — хранилище поверх pgxpool. Схема создаётся миграциями
// из пакета db/postgres.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres оборачивает пул. Закрытие хранилища закрывает пул.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Transact выполняет fn в транзакции под pg_advisory_xact_lock(hashtext(user_id)).
// Блокировка снимается вместе с COMMIT или ROLLBACK.
func (p *Postgres) Transact(ctx context.Context, userID string, fn func(Tx) error) error {
	if err := checkUserID(userID); err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	// Откатываем транзакцию, если что-то пошло не так
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", userID); err != nil {
		return fmt.Errorf("ошибка блокировки пользователя: %w", err)
	}

	if err := fn(&pgTx{tx: tx, userID: userID}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// UserIDs возвращает всех пользователей с записями.
func (p *Postgres) UserIDs(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, "SELECT DISTINCT user_id FROM user_meta ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("ошибка выборки пользователей: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения пользователей: %w", err)
	}
	return ids, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

type pgTx struct {
	tx     pgx.Tx
	userID string
}

func (t *pgTx) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var raw string
	err := t.tx.QueryRow(ctx,
		"SELECT meta_value::text FROM user_meta WHERE user_id = $1 AND meta_key = $2",
		t.userID, key,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка чтения %q: %w", key, err)
	}
	return []byte(raw), true, nil
}

func (t *pgTx) Set(ctx context.Context, key string, value []byte) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO user_meta (user_id, meta_key, meta_value, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (user_id, meta_key)
		DO UPDATE SET meta_value = EXCLUDED.meta_value, updated_at = NOW()
	`, t.userID, key, string(value))
	if err != nil {
		return fmt.Errorf("ошибка записи %q: %w", key, err)
	}
	return nil
}

func (t *pgTx) Delete(ctx context.Context, key string) error {
	_, err := t.tx.Exec(ctx,
		"DELETE FROM user_meta WHERE user_id = $1 AND meta_key = $2", t.userID, key)
	if err != nil {
		return fmt.Errorf("ошибка удаления %q: %w", key, err)
	}
	return nil
}
