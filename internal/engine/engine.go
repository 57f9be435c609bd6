// Package engine выполняет действия пользователя: читает записи из
// хранилища, считает новое состояние (серия, очки, награды, достижения)
// и записывает его обратно в одной транзакции.
package engine

import (
	"context"
	"sync"
	"time"

	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/features/rewards"
	"serotonyl.ru/bible-reading/internal/store"
)

// Options — настройки движка из конфигурации.
type Options struct {
	PointsPerChapter int  // очки за новую главу
	SpinsEnabled     bool // выключает spin и open_mystery_box
}

// DefaultOptions — значения по умолчанию.
var DefaultOptions = Options{PointsPerChapter: 10, SpinsEnabled: true}

// Engine — точка входа для всех действий.
type Engine struct {
	store  store.Store
	clock  common.Clock
	rng    rewards.RNG
	tables rewards.Tables
	opts   Options
}

// New создаёт движок. rng используется из нескольких горутин,
// поэтому оборачивается мьютексом.
func New(s store.Store, clock common.Clock, rng rewards.RNG, tables rewards.Tables, opts Options) *Engine {
	return &Engine{
		store:  s,
		clock:  clock,
		rng:    &lockedRNG{rng: rng},
		tables: tables,
		opts:   opts,
	}
}

// run выполняет fn в транзакции пользователя. Время берётся один раз
// на попытку, чтобы все сравнения дат внутри запроса были согласованы.
func (e *Engine) run(ctx context.Context, userID string, fn func(*session) error) error {
	if userID == "" {
		return common.ErrUnauthenticated
	}
	return e.store.Transact(ctx, userID, func(tx store.Tx) error {
		s := newSession(ctx, tx, userID, e.clock.Now(), e)
		if err := fn(s); err != nil {
			return err
		}
		return s.flush()
	})
}

// now — текущее время в поясе приложения.
func (e *Engine) now() time.Time {
	return e.clock.Now()
}

type lockedRNG struct {
	mu  sync.Mutex
	rng rewards.RNG
}

func (r *lockedRNG) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
