// Package engine — actions.go: действия пользователя.
// Каждое действие — одна транзакция чтение-расчёт-запись.
package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/bible"
	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/features/achievements"
	"serotonyl.ru/bible-reading/internal/features/plan"
	"serotonyl.ru/bible-reading/internal/features/points"
	"serotonyl.ru/bible-reading/internal/features/progress"
	"serotonyl.ru/bible-reading/internal/features/rewards"
	"serotonyl.ru/bible-reading/internal/features/streak"
	"serotonyl.ru/bible-reading/internal/features/subscription"
)

// ResolveChapter проверяет книгу и главу до обращения к хранилищу.
func ResolveChapter(book string, chapter int) (bible.Book, error) {
	if book == "" {
		return bible.Book{}, common.MissingParam("book")
	}
	b, ok := bible.Lookup(book)
	if !ok {
		return bible.Book{}, common.InvalidParam("book", fmt.Sprintf("unknown book %q", book))
	}
	if chapter < 1 || chapter > b.Chapters {
		return bible.Book{}, common.InvalidParam("chapter", fmt.Sprintf("%s has chapters 1..%d", b.Name, b.Chapters))
	}
	return b, nil
}

// MarkAsRead отмечает главу прочитанной.
//
// Порядок:
//  1. глава добавляется в прогресс
//  2. история за сегодня: +1 за новую главу, иначе гарантируем >= 1
//  3. очки за новую главу
//  4. серия за сегодня (повторно за день не растёт)
//  5. достижения за серию и чтение
func (e *Engine) MarkAsRead(ctx context.Context, userID, book string, chapter int) (*MarkResult, error) {
	b, err := ResolveChapter(book, chapter)
	if err != nil {
		return nil, err
	}

	var res *MarkResult
	err = e.run(ctx, userID, func(s *session) error {
		prog, err := get(s, &s.progress)
		if err != nil {
			return err
		}
		next, isNew := progress.Add(*prog, b.Key, chapter)
		*prog = next
		if isNew {
			s.progress.touch()
		}

		h, err := get(s, &s.history)
		if err != nil {
			return err
		}
		if isNew {
			*h = streak.AddChapters(*h, s.today, 1)
		} else {
			*h = streak.RecordActivity(*h, s.today)
		}
		s.history.touch()

		awarded := 0
		if isNew && e.opts.PointsPerChapter > 0 {
			awarded = e.opts.PointsPerChapter
			if err := s.awardPoints(awarded); err != nil {
				return err
			}
		}

		outcome, err := s.updateStreak()
		if err != nil {
			return err
		}
		if err := s.checkReadingAchievements(); err != nil {
			return err
		}

		st, err := get(s, &s.streak)
		if err != nil {
			return err
		}
		pts, err := get(s, &s.points)
		if err != nil {
			return err
		}
		res = &MarkResult{
			Book:          b.Key,
			Chapter:       chapter,
			NewChapter:    isNew,
			Chapters:      prog.Chapters(b.Key),
			BookProgress:  progress.BookStatus(*prog, b.Key),
			Date:          s.today,
			ChaptersToday: h.Count(s.today),
			StreakOutcome: outcome,
			Streak:        *st,
			PointsAwarded: awarded,
			Points:        *pts,
			Gains:         s.gains(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"book":    b.Key,
		"chapter": chapter,
		"new":     res.NewChapter,
		"streak":  res.Streak.CurrentStreak,
	}).Debug("Глава отмечена")
	return res, nil
}

// updateStreak пересчитывает серию за сегодня и проверяет достижения серии.
func (s *session) updateStreak() (streak.Outcome, error) {
	h, err := get(s, &s.history)
	if err != nil {
		return "", err
	}
	st, err := get(s, &s.streak)
	if err != nil {
		return "", err
	}
	next, outcome, err := streak.UpdateStreak(*h, *st, s.today)
	if err != nil {
		return "", err
	}
	if outcome != streak.Updated {
		return outcome, nil
	}
	*st = next
	s.streak.touch()
	return outcome, s.checkStreakAchievements()
}

// UpdateStreak пересчитывает серию за сегодня. Нет чтения сегодня или
// день уже засчитан — успешный ответ с updated = false.
func (e *Engine) UpdateStreak(ctx context.Context, userID string) (*StreakResult, error) {
	var res *StreakResult
	err := e.run(ctx, userID, func(s *session) error {
		outcome, err := s.updateStreak()
		if err != nil {
			return err
		}
		st, err := get(s, &s.streak)
		if err != nil {
			return err
		}
		res = &StreakResult{
			Updated: outcome == streak.Updated,
			Date:    s.today,
			Streak:  *st,
			Gains:   s.gains(),
		}
		if !res.Updated {
			res.Reason = string(outcome)
		}
		return nil
	})
	return res, err
}

// Spin — ежедневный или небесный спин.
// daily — не чаще раза в календарный день; heavenly — списывает жетон.
// Нарушение правила возвращает ошибку, записи не меняются.
func (e *Engine) Spin(ctx context.Context, userID, spinType string) (*SpinResult, error) {
	if !e.opts.SpinsEnabled {
		return nil, common.ErrFeatureDisabled
	}
	kind := rewards.SpinType(spinType)
	switch kind {
	case "":
		kind = rewards.SpinDaily
	case rewards.SpinDaily, rewards.SpinHeavenly:
	default:
		return nil, common.InvalidParam("spin_type", "must be daily or heavenly")
	}

	var res *SpinResult
	err := e.run(ctx, userID, func(s *session) error {
		rw, err := get(s, &s.rewards)
		if err != nil {
			return err
		}

		var pool rewards.Pool
		switch kind {
		case rewards.SpinDaily:
			if !rewards.DailyAvailable(*rw, s.today) {
				return common.ErrSpinAlreadyUsed
			}
			rw.LastSpinDate = s.today
			pool = e.tables.Daily
		case rewards.SpinHeavenly:
			next, ok := rewards.ConsumeToken(*rw, rewards.HeavenlySpinToken)
			if !ok {
				return common.ErrNoHeavenlyTokens
			}
			*rw = next
			pool = e.tables.Heavenly()
		}
		s.rewards.touch()

		res, err = s.draw(kind, pool)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// OpenMysteryBox открывает один сундук.
func (e *Engine) OpenMysteryBox(ctx context.Context, userID string) (*SpinResult, error) {
	if !e.opts.SpinsEnabled {
		return nil, common.ErrFeatureDisabled
	}

	var res *SpinResult
	err := e.run(ctx, userID, func(s *session) error {
		rw, err := get(s, &s.rewards)
		if err != nil {
			return err
		}
		if rw.MysteryBoxes < 1 {
			return common.ErrNoMysteryBoxes
		}
		rw.MysteryBoxes--
		s.rewards.touch()

		res, err = s.draw(rewards.SpinMysteryBox, e.tables.MysteryBox)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// draw выбирает награду из пула, применяет её и пишет в историю спинов.
func (s *session) draw(kind rewards.SpinType, pool rewards.Pool) (*SpinResult, error) {
	picked, err := rewards.Spin(pool, s.e.rng)
	if err != nil {
		return nil, fmt.Errorf("ошибка выбора награды: %w", err)
	}
	reward := rewards.Resolve(picked, s.e.rng, s.e.tables)

	effect, err := s.applyReward(reward)
	if err != nil {
		return nil, err
	}

	rw, err := get(s, &s.rewards)
	if err != nil {
		return nil, err
	}
	*rw = rewards.AppendHistory(*rw, rewards.SpinRecord{
		ID:       uuid.NewString(),
		Type:     kind,
		RewardID: reward.ID,
		Name:     reward.Name,
		Rarity:   reward.Rarity,
		Value:    reward.Value,
		At:       s.now.UTC(),
	})
	s.rewards.touch()

	pts, err := get(s, &s.points)
	if err != nil {
		return nil, err
	}
	st, err := get(s, &s.streak)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": s.userID,
		"type":    kind,
		"reward":  reward.ID,
		"value":   reward.Value,
	}).Info("Спин выполнен")

	return &SpinResult{
		SpinType: kind,
		Reward:   reward,
		Effect:   effect,
		Rewards:  rewardsView(*rw, s.today),
		Points:   *pts,
		Streak:   *st,
		Gains:    s.gains(),
	}, nil
}

// CheckAchievements проверяет все условия и возвращает новые достижения.
func (e *Engine) CheckAchievements(ctx context.Context, userID string) (*AchievementsResult, error) {
	var res *AchievementsResult
	err := e.run(ctx, userID, func(s *session) error {
		if err := s.checkReadingAchievements(); err != nil {
			return err
		}
		if err := s.checkStreakAchievements(); err != nil {
			return err
		}
		if err := s.checkLevelAchievements(); err != nil {
			return err
		}
		a, err := get(s, &s.achievements)
		if err != nil {
			return err
		}
		res = &AchievementsResult{Gains: s.gains(), TotalUnlocked: len(a.Unlocked)}
		return nil
	})
	return res, err
}

// GetProgress возвращает прогресс и сводку.
func (e *Engine) GetProgress(ctx context.Context, userID string) (*ProgressView, error) {
	var res *ProgressView
	err := e.run(ctx, userID, func(s *session) error {
		p, err := get(s, &s.progress)
		if err != nil {
			return err
		}
		res = &ProgressView{Progress: p.Clone(), Summary: progress.Summarize(*p)}
		return nil
	})
	return res, err
}

// GetStreak возвращает серию и окно активности за 30 дней.
func (e *Engine) GetStreak(ctx context.Context, userID string) (*StreakView, error) {
	var res *StreakView
	err := e.run(ctx, userID, func(s *session) error {
		st, err := get(s, &s.streak)
		if err != nil {
			return err
		}
		h, err := get(s, &s.history)
		if err != nil {
			return err
		}
		days, err := streak.Last30Days(*h, s.today)
		if err != nil {
			return err
		}
		res = &StreakView{
			Streak:        *st,
			ReadToday:     h.Count(s.today) > 0,
			ChaptersToday: h.Count(s.today),
			Last30Days:    days,
		}
		return nil
	})
	return res, err
}

// GetPoints возвращает очки и уровень.
func (e *Engine) GetPoints(ctx context.Context, userID string) (*PointsView, error) {
	var res *PointsView
	err := e.run(ctx, userID, func(s *session) error {
		p, err := get(s, &s.points)
		if err != nil {
			return err
		}
		res = &PointsView{Points: *p, Remaining: points.Remaining(*p)}
		return nil
	})
	return res, err
}

// GetRewards возвращает жетоны, сундуки и историю спинов.
func (e *Engine) GetRewards(ctx context.Context, userID string) (*RewardsView, error) {
	var res RewardsView
	err := e.run(ctx, userID, func(s *session) error {
		rw, err := get(s, &s.rewards)
		if err != nil {
			return err
		}
		res = rewardsView(rw.Clone(), s.today)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// GetAchievements возвращает все определения с флагом разблокировки.
func (e *Engine) GetAchievements(ctx context.Context, userID string) (*AchievementsView, error) {
	var res *AchievementsView
	err := e.run(ctx, userID, func(s *session) error {
		a, err := get(s, &s.achievements)
		if err != nil {
			return err
		}
		st := achievements.Statuses(*a)
		res = &AchievementsView{Achievements: st, TotalUnlocked: len(a.Unlocked), Total: len(st)}
		return nil
	})
	return res, err
}

// GetPlan возвращает план, создавая пятилетний при первом обращении.
func (e *Engine) GetPlan(ctx context.Context, userID string) (*PlanResult, error) {
	var res *PlanResult
	err := e.run(ctx, userID, func(s *session) error {
		found, err := exists(s, &s.plan)
		if err != nil {
			return err
		}
		p, err := get(s, &s.plan)
		if err != nil {
			return err
		}
		next, created := plan.GetOrCreate(*p, found, s.now)
		*p = next
		if created {
			s.plan.touch()
		}
		res = &PlanResult{Plan: next, Created: created}
		return nil
	})
	return res, err
}

// UpdatePlan меняет вид плана. Структура custom проверяется на входе.
func (e *Engine) UpdatePlan(ctx context.Context, userID, planType string, structure json.RawMessage) (*PlanResult, error) {
	var res *PlanResult
	err := e.run(ctx, userID, func(s *session) error {
		found, err := exists(s, &s.plan)
		if err != nil {
			return err
		}
		p, err := get(s, &s.plan)
		if err != nil {
			return err
		}
		next, err := plan.Update(*p, found, planType, structure, s.now)
		if err != nil {
			return err
		}
		*p = next
		s.plan.touch()
		res = &PlanResult{Plan: next, Created: !found}
		return nil
	})
	return res, err
}

// UpdateSubscription записывает статус подписки от платёжного сервиса.
func (e *Engine) UpdateSubscription(ctx context.Context, userID, status, planName, expiresAt string) (*SubscriptionResult, error) {
	var res *SubscriptionResult
	err := e.run(ctx, userID, func(s *session) error {
		sub, err := get(s, &s.subscription)
		if err != nil {
			return err
		}
		next, err := subscription.Update(*sub, status, planName, expiresAt, s.now)
		if err != nil {
			return err
		}
		*sub = next
		s.subscription.touch()
		res = &SubscriptionResult{Subscription: next}
		return nil
	})
	return res, err
}

// UpdateNotifications привязывает чат Telegram для напоминаний.
// chatID = 0 отвязывает чат.
func (e *Engine) UpdateNotifications(ctx context.Context, userID string, chatID int64) (*NotificationsResult, error) {
	var res *NotificationsResult
	err := e.run(ctx, userID, func(s *session) error {
		n, err := get(s, &s.notifications)
		if err != nil {
			return err
		}
		n.TelegramChatID = chatID
		s.notifications.touch()
		res = &NotificationsResult{Notifications: *n}
		return nil
	})
	return res, err
}
