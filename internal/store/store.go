// Package store — хранилище записей пользователей.
// Каждая запись — JSON-документ под ключом в пространстве пользователя.
// Все изменения идут через Transact, который сериализует запись
// для одного пользователя во всех реализациях.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Ключи записей пользователя
const (
	KeyProgress      = "progress"
	KeyHistory       = "history"
	KeyStreak        = "streak"
	KeyPoints        = "points"
	KeyRewards       = "rewards"
	KeyAchievements  = "achievements"
	KeyPlan          = "plan"
	KeySubscription  = "subscription"
	KeyNotifications = "notifications"
)

// ErrEmptyUserID — пустой идентификатор пользователя.
var ErrEmptyUserID = errors.New("пустой идентификатор пользователя")

// Tx — доступ к записям одного пользователя внутри транзакции.
type Tx interface {
	// Get возвращает значение и found = false, если записи нет.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store — хранилище записей.
type Store interface {
	// Transact выполняет fn атомарно для одного пользователя.
	// Ошибка fn откатывает все записи, сделанные внутри.
	Transact(ctx context.Context, userID string, fn func(Tx) error) error
	// UserIDs возвращает всех пользователей, у которых есть записи.
	UserIDs(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Load читает и декодирует запись. Отсутствующая запись — nil, false.
func Load[T any](ctx context.Context, tx Tx, key string) (*T, bool, error) {
	raw, found, err := tx.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, false, fmt.Errorf("запись %q повреждена: %w", key, err)
	}
	return &v, true, nil
}

// Save кодирует и записывает значение.
func Save[T any](ctx context.Context, tx Tx, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ошибка кодирования %q: %w", key, err)
	}
	return tx.Set(ctx, key, raw)
}

func checkUserID(userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	return nil
}
