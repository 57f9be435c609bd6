// Package engine — session.go: ленивые записи пользователя внутри транзакции.
// Запись читается при первом обращении, отсутствующая получает значение
// по умолчанию, а в хранилище уходят только изменённые.
package engine

import (
	"context"
	"time"

	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/features/achievements"
	"serotonyl.ru/bible-reading/internal/features/plan"
	"serotonyl.ru/bible-reading/internal/features/points"
	"serotonyl.ru/bible-reading/internal/features/progress"
	"serotonyl.ru/bible-reading/internal/features/reminders"
	"serotonyl.ru/bible-reading/internal/features/rewards"
	"serotonyl.ru/bible-reading/internal/features/streak"
	"serotonyl.ru/bible-reading/internal/features/subscription"
	"serotonyl.ru/bible-reading/internal/store"
)

// record — одна запись пользователя.
// found — запись была в хранилище; отличает «никогда не создавалась»
// от пустого значения.
type record[T any] struct {
	key    string
	value  T
	found  bool
	loaded bool
	dirty  bool
	init   func() T
}

type session struct {
	ctx    context.Context
	tx     store.Tx
	userID string
	now    time.Time
	today  string
	e      *Engine

	progress      record[progress.Progress]
	history       record[streak.History]
	streak        record[streak.Streak]
	points        record[points.Points]
	rewards       record[rewards.Rewards]
	achievements  record[achievements.Achievements]
	plan          record[plan.Plan]
	subscription  record[subscription.Subscription]
	notifications record[reminders.Settings]

	// итоги запроса
	unlocked []achievements.Unlocked
	levelUps []int
}

func newSession(ctx context.Context, tx store.Tx, userID string, now time.Time, e *Engine) *session {
	return &session{
		ctx:    ctx,
		tx:     tx,
		userID: userID,
		now:    now,
		today:  common.DateKey(now),
		e:      e,

		progress:      record[progress.Progress]{key: store.KeyProgress, init: func() progress.Progress { return progress.Progress{} }},
		history:       record[streak.History]{key: store.KeyHistory, init: func() streak.History { return streak.History{} }},
		streak:        record[streak.Streak]{key: store.KeyStreak},
		points:        record[points.Points]{key: store.KeyPoints, init: points.New},
		rewards:       record[rewards.Rewards]{key: store.KeyRewards},
		achievements:  record[achievements.Achievements]{key: store.KeyAchievements},
		plan:          record[plan.Plan]{key: store.KeyPlan},
		subscription:  record[subscription.Subscription]{key: store.KeySubscription},
		notifications: record[reminders.Settings]{key: store.KeyNotifications},
	}
}

// get загружает запись при первом обращении и возвращает указатель на значение.
func get[T any](s *session, r *record[T]) (*T, error) {
	if r.loaded {
		return &r.value, nil
	}
	v, found, err := store.Load[T](s.ctx, s.tx, r.key)
	if err != nil {
		return nil, err
	}
	r.loaded = true
	r.found = found
	switch {
	case found:
		r.value = *v
	case r.init != nil:
		r.value = r.init()
	}
	return &r.value, nil
}

// exists — была ли запись в хранилище до запроса.
func exists[T any](s *session, r *record[T]) (bool, error) {
	if _, err := get(s, r); err != nil {
		return false, err
	}
	return r.found, nil
}

// touch помечает запись изменённой.
func (r *record[T]) touch() {
	r.dirty = true
}

func flushRecord[T any](s *session, r *record[T]) error {
	if !r.dirty {
		return nil
	}
	if err := store.Save(s.ctx, s.tx, r.key, r.value); err != nil {
		return err
	}
	r.dirty = false
	r.found = true
	return nil
}

// flush записывает все изменённые записи.
func (s *session) flush() error {
	for _, fn := range []func() error{
		func() error { return flushRecord(s, &s.progress) },
		func() error { return flushRecord(s, &s.history) },
		func() error { return flushRecord(s, &s.streak) },
		func() error { return flushRecord(s, &s.points) },
		func() error { return flushRecord(s, &s.rewards) },
		func() error { return flushRecord(s, &s.achievements) },
		func() error { return flushRecord(s, &s.plan) },
		func() error { return flushRecord(s, &s.subscription) },
		func() error { return flushRecord(s, &s.notifications) },
	} {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}
