// Package store — redis.go: хранилище в Redis, один хеш на пользователя.
// Транзакция — WATCH на хеш и MULTI/EXEC с повтором при конфликте.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisMaxRetries — сколько раз повторяем транзакцию при конфликте WATCH.
const RedisMaxRetries = 50

// ErrConflict — транзакция не прошла за RedisMaxRetries попыток.
var ErrConflict = errors.New("конфликт параллельной записи")

// RedisOptions — параметры подключения.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Redis — хранилище поверх go-redis.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis подключается к Redis и проверяет доступность.
func NewRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "bible"
	}
	return &Redis{rdb: rdb, prefix: prefix}, nil
}

func (r *Redis) userKey(userID string) string {
	return r.prefix + ":user:" + userID
}

func (r *Redis) usersKey() string {
	return r.prefix + ":users"
}

// Transact читает через WATCH, буферизует записи и применяет их в MULTI.
// При конфликте fn выполняется заново на свежем состоянии.
func (r *Redis) Transact(ctx context.Context, userID string, fn func(Tx) error) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	key := r.userKey(userID)

	for attempt := 1; attempt <= RedisMaxRetries; attempt++ {
		err := r.rdb.Watch(ctx, func(rtx *redis.Tx) error {
			tx := &redisTx{rtx: rtx, key: key, writes: make(map[string][]byte)}
			if err := fn(tx); err != nil {
				return err
			}
			if len(tx.writes) == 0 {
				return nil
			}
			_, err := rtx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				for field, v := range tx.writes {
					if v == nil {
						pipe.HDel(ctx, key, field)
						continue
					}
					pipe.HSet(ctx, key, field, v)
				}
				pipe.SAdd(ctx, r.usersKey(), userID)
				return nil
			})
			return err
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			log.WithFields(log.Fields{
				"user_id": userID,
				"attempt": attempt,
			}).Debug("Конфликт WATCH, повторяем транзакцию")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Millisecond):
			}
			continue
		}
		return err
	}
	return ErrConflict
}

func (r *Redis) UserIDs(ctx context.Context) ([]string, error) {
	ids, err := r.rdb.SMembers(ctx, r.usersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}

type redisTx struct {
	rtx    *redis.Tx
	key    string
	writes map[string][]byte // nil-значение — удаление
}

func (t *redisTx) Get(ctx context.Context, field string) ([]byte, bool, error) {
	if v, ok := t.writes[field]; ok {
		if v == nil {
			return nil, false, nil
		}
		return slices.Clone(v), true, nil
	}
	v, err := t.rtx.HGet(ctx, t.key, field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget %q: %w", field, err)
	}
	return v, true, nil
}

func (t *redisTx) Set(_ context.Context, field string, value []byte) error {
	t.writes[field] = append(make([]byte, 0, len(value)), value...)
	return nil
}

func (t *redisTx) Delete(_ context.Context, field string) error {
	t.writes[field] = nil
	return nil
}
