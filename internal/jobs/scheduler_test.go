package jobs

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/robfig/cron/v3"

	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/engine"
	"serotonyl.ru/bible-reading/internal/features/reminders"
	"serotonyl.ru/bible-reading/internal/features/rewards"
	"serotonyl.ru/bible-reading/internal/notify"
	"serotonyl.ru/bible-reading/internal/store"
)

func TestSpecsParse(t *testing.T) {
	for _, spec := range []string{RemindersSpec, SubscriptionsSpec} {
		if _, err := cron.ParseStandard(spec); err != nil {
			t.Fatalf("%q: %v", spec, err)
		}
	}

	loc := time.FixedZone("MSK", 3*60*60)
	sched, _ := cron.ParseStandard(SubscriptionsSpec)
	next := sched.Next(time.Date(2026, 3, 1, 23, 0, 0, 0, loc))
	if want := time.Date(2026, 3, 2, 0, 5, 0, 0, loc); !next.Equal(want) {
		t.Fatalf("next run %v, want %v", next, want)
	}
}

func TestStartRegistersJobs(t *testing.T) {
	eng := engine.New(store.NewMemory(), common.SystemClock{}, rand.New(rand.NewPCG(1, 1)), rewards.DefaultTables(), engine.DefaultOptions)

	s := NewScheduler(time.UTC, eng, notify.Log{}, Options{RemindersEnabled: true, Rule: reminders.Rule{Threshold: 7, HourFrom: 18}})
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()
	if s.Entries() != 2 {
		t.Fatalf("entries=%d, want 2", s.Entries())
	}

	off := NewScheduler(nil, eng, notify.Log{}, Options{})
	if err := off.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer off.Stop()
	if off.Entries() != 1 {
		t.Fatalf("entries=%d, want 1 with reminders off", off.Entries())
	}
}

func TestSendReminders(t *testing.T) {
	clock := &common.FixedClock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	eng := engine.New(store.NewMemory(), clock, rand.New(rand.NewPCG(1, 1)), rewards.DefaultTables(), engine.DefaultOptions)
	ctx := context.Background()

	// Два дня чтения у u1, один у u2
	for day := 1; day <= 2; day++ {
		if _, err := eng.MarkAsRead(ctx, "u1", "genesis", day); err != nil {
			t.Fatalf("MarkAsRead: %v", err)
		}
		if day == 2 {
			if _, err := eng.MarkAsRead(ctx, "u2", "genesis", 1); err != nil {
				t.Fatalf("MarkAsRead: %v", err)
			}
		}
		clock.Advance(24 * time.Hour)
	}
	for _, id := range []string{"u1", "u2"} {
		if _, err := eng.UpdateNotifications(ctx, id, 100); err != nil {
			t.Fatalf("UpdateNotifications: %v", err)
		}
	}
	clock.Advance(8 * time.Hour) // 20:00

	rec := &notify.Recorder{}
	s := NewScheduler(time.UTC, eng, rec, Options{RemindersEnabled: true, Rule: reminders.Rule{Threshold: 2, HourFrom: 18}})

	sent, err := s.SendReminders(ctx)
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent=%d, want 1", sent)
	}
	msgs := rec.Messages()
	if len(msgs) != 1 || msgs[0].ChatID != 100 || msgs[0].Text != reminders.Message(2) {
		t.Fatalf("messages=%+v", msgs)
	}

	// Второй прогон в тот же день ничего не шлёт
	if sent, _ := s.SendReminders(ctx); sent != 0 {
		t.Fatalf("second run sent %d", sent)
	}
}
