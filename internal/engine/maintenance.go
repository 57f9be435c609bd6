// Package engine — maintenance.go: операции администратора и фоновых задач.
package engine

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/bible"
	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/features/progress"
	"serotonyl.ru/bible-reading/internal/features/reminders"
	"serotonyl.ru/bible-reading/internal/features/subscription"
)

// RemoveBookResult — ответ удаления книги из прогресса.
type RemoveBookResult struct {
	Book    string           `json:"book"`
	Removed int              `json:"removed_chapters"`
	Summary progress.Summary `json:"summary"`
}

// RemoveBook удаляет одну книгу из прогресса пользователя.
// Очки, серия и достижения не пересчитываются.
func (e *Engine) RemoveBook(ctx context.Context, userID, book string) (*RemoveBookResult, error) {
	key := bible.NormalizeKey(book)
	if key == "" {
		return nil, common.MissingParam("book")
	}

	var res *RemoveBookResult
	err := e.run(ctx, userID, func(s *session) error {
		p, err := get(s, &s.progress)
		if err != nil {
			return err
		}
		removed := len(p.Chapters(key))
		next, ok := progress.RemoveBook(*p, key)
		if !ok {
			return &common.Error{Kind: common.KindNotFound, Code: common.ErrNotFound.Code, Message: "book " + key + " has no progress"}
		}
		*p = next
		s.progress.touch()
		res = &RemoveBookResult{Book: key, Removed: removed, Summary: progress.Summarize(next)}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"book":    key,
		"removed": res.Removed,
	}).Warn("Книга удалена из прогресса")
	return res, nil
}

// ExpireSubscriptions переводит просроченные подписки в expired.
// Возвращает число изменённых записей.
func (e *Engine) ExpireSubscriptions(ctx context.Context) (int, error) {
	ids, err := e.store.UserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка получения пользователей: %w", err)
	}

	expired := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		changed := false
		err := e.run(ctx, id, func(s *session) error {
			found, err := exists(s, &s.subscription)
			if err != nil || !found {
				return err
			}
			sub, err := get(s, &s.subscription)
			if err != nil {
				return err
			}
			next, ok := subscription.Expire(*sub, s.now)
			if ok {
				*sub = next
				s.subscription.touch()
			}
			changed = ok
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("user_id", id).Error("Ошибка проверки подписки")
			continue
		}
		if changed {
			expired++
		}
	}
	return expired, nil
}

// Reminder — напоминание, которое нужно отправить.
type Reminder struct {
	UserID string
	ChatID int64
	Streak int
	Text   string
}

// DueReminders собирает напоминания о серии на текущий час.
func (e *Engine) DueReminders(ctx context.Context, rule reminders.Rule) ([]Reminder, error) {
	ids, err := e.store.UserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения пользователей: %w", err)
	}
	hour := e.now().Hour()

	var due []Reminder
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return due, err
		}
		err := e.run(ctx, id, func(s *session) error {
			n, err := get(s, &s.notifications)
			if err != nil {
				return err
			}
			st, err := get(s, &s.streak)
			if err != nil {
				return err
			}
			h, err := get(s, &s.history)
			if err != nil {
				return err
			}
			if reminders.Due(rule, *n, *st, *h, s.today, hour) {
				due = append(due, Reminder{
					UserID: id,
					ChatID: n.TelegramChatID,
					Streak: st.CurrentStreak,
					Text:   reminders.Message(st.CurrentStreak),
				})
			}
			return nil
		})
		if err != nil {
			log.WithError(err).WithField("user_id", id).Error("Ошибка проверки напоминания")
		}
	}
	return due, nil
}

// MarkReminded запоминает, что сегодня напоминание уже отправлено.
func (e *Engine) MarkReminded(ctx context.Context, userID string) error {
	return e.run(ctx, userID, func(s *session) error {
		n, err := get(s, &s.notifications)
		if err != nil {
			return err
		}
		n.LastReminderDate = s.today
		s.notifications.touch()
		return nil
	})
}
