// Package postgres — migrations.go содержит встроенные SQL-миграции
// и их последовательное применение.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Migration — одна версия схемы.
type Migration struct {
	Version int
	SQL     string
}

// SQL-миграции встроены в код для упрощения деплоя.
var migrations = []Migration{
	{1, migration001UserMeta},
	{2, migration002StreakIndex},
}

// migration001UserMeta — записи пользователя: по одной строке на ключ.
var migration001UserMeta = `
CREATE TABLE IF NOT EXISTS user_meta (
    user_id    TEXT        NOT NULL,
    meta_key   TEXT        NOT NULL,
    meta_value JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (user_id, meta_key)
);
`

// migration002StreakIndex — ускоряет выборку активных серий для напоминаний.
var migration002StreakIndex = `
CREATE INDEX IF NOT EXISTS idx_user_meta_streak_current
    ON user_meta (((meta_value->>'current_streak')::int))
    WHERE meta_key = 'streak';
`

// Migrate создаёт таблицу schema_migrations и применяет новые миграции по порядку.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("не удалось получить соединение: %w", err)
	}
	_, err = conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT NOW()
		)
	`)
	conn.Release()
	if err != nil {
		return fmt.Errorf("ошибка создания таблицы миграций: %w", err)
	}

	for _, m := range migrations {
		applied, err := ExecMigrationSQL(ctx, pool, m.Version, m.SQL)
		if err != nil {
			return fmt.Errorf("миграция %d: %w", m.Version, err)
		}
		if applied {
			log.Infof("Миграция %d применена", m.Version)
		}
	}
	return nil
}

// ExecMigrationSQL выполняет одну миграцию в транзакции и записывает версию.
// Уже применённая миграция пропускается, applied = false.
func ExecMigrationSQL(ctx context.Context, pool *pgxpool.Pool, version int, sql string) (bool, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	// Откатываем транзакцию, если что-то пошло не так
	defer tx.Rollback(ctx)

	// Защита от параллельного запуска нескольких экземпляров
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(727001)"); err != nil {
		return false, fmt.Errorf("ошибка блокировки миграций: %w", err)
	}

	var exists bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)", version,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки миграции: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.Exec(ctx, sql); err != nil {
		return false, fmt.Errorf("ошибка выполнения миграции %d: %w", version, err)
	}

	if _, err := tx.Exec(ctx,
		"INSERT INTO schema_migrations (version) VALUES ($1)", version,
	); err != nil {
		return false, fmt.Errorf("ошибка записи версии миграции: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("ошибка фиксации миграции %d: %w", version, err)
	}
	return true, nil
}
