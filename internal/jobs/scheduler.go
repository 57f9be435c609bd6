// Package jobs управляет фоновыми задачами (cron).
// scheduler.go настраивает расписание: ежечасные напоминания о серии
// и ежедневное закрытие просроченных подписок.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/engine"
	"serotonyl.ru/bible-reading/internal/features/reminders"
	"serotonyl.ru/bible-reading/internal/notify"
)

// Расписания
const (
	RemindersSpec     = "0 * * * *" // каждый час
	SubscriptionsSpec = "5 0 * * *" // 00:05 по поясу приложения
)

// Options — что запускать.
type Options struct {
	RemindersEnabled bool
	Rule             reminders.Rule
}

// Scheduler управляет фоновыми задачами.
type Scheduler struct {
	cron     *cron.Cron
	loc      *time.Location
	engine   *engine.Engine
	notifier notify.Notifier
	opts     Options
}

// NewScheduler создаёт планировщик в часовом поясе приложения.
func NewScheduler(loc *time.Location, eng *engine.Engine, notifier notify.Notifier, opts Options) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		loc:      loc,
		engine:   eng,
		notifier: notifier,
		opts:     opts,
	}
}

// Start регистрирует и запускает задачи.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.opts.RemindersEnabled {
		if _, err := s.cron.AddFunc(RemindersSpec, func() {
			log.Debug("[CRON] Проверка напоминаний")
			if _, err := s.SendReminders(ctx); err != nil {
				log.WithError(err).Error("[CRON] Ошибка напоминаний")
			}
		}); err != nil {
			return fmt.Errorf("ошибка регистрации задачи напоминаний: %w", err)
		}
	}

	if _, err := s.cron.AddFunc(SubscriptionsSpec, func() {
		log.Info("[CRON] Проверка просроченных подписок")
		n, err := s.engine.ExpireSubscriptions(ctx)
		if err != nil {
			log.WithError(err).Error("[CRON] Ошибка проверки подписок")
			return
		}
		log.WithField("expired", n).Info("[CRON] Подписки проверены")
	}); err != nil {
		return fmt.Errorf("ошибка регистрации задачи подписок: %w", err)
	}

	s.cron.Start()
	log.WithField("location", s.loc.String()).Info("Планировщик задач запущен")
	return nil
}

// SendReminders отправляет напоминания тем, у кого серия под угрозой.
// Дата напоминания записывается только после успешной отправки.
func (s *Scheduler) SendReminders(ctx context.Context) (int, error) {
	due, err := s.engine.DueReminders(ctx, s.opts.Rule)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, r := range due {
		if err := s.notifier.Notify(ctx, r.ChatID, r.Text); err != nil {
			log.WithError(err).WithField("user_id", r.UserID).Warn("Не удалось отправить напоминание")
			continue
		}
		if err := s.engine.MarkReminded(ctx, r.UserID); err != nil {
			log.WithError(err).WithField("user_id", r.UserID).Error("Не удалось сохранить дату напоминания")
			continue
		}
		sent++
	}
	if sent > 0 {
		log.WithField("sent", sent).Info("Напоминания отправлены")
	}
	return sent, nil
}

// Entries — число зарегистрированных задач.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Stop останавливает планировщик и ждёт завершения запущенных задач.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Планировщик задач остановлен")
}
