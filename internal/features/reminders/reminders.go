// Package reminders решает, кому пора напомнить о серии чтения,
// и формирует текст напоминания.
package reminders

import (
	"fmt"

	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/features/streak"
)

// Settings — запись уведомлений пользователя.
type Settings struct {
	TelegramChatID   int64  `json:"telegram_chat_id,omitempty"`
	LastReminderDate string `json:"last_reminder_date,omitempty"`
}

// Rule — условия отправки напоминания.
type Rule struct {
	Threshold int // минимальная серия, которую жалко терять
	HourFrom  int // локальный час, с которого напоминаем
}

// Due — нужно ли напомнить пользователю сегодня.
//
// Напоминаем, если:
//   - привязан чат
//   - серия >= Threshold и ещё жива (последний засчитанный день — вчера)
//   - сегодня ещё не читал
//   - сегодня ещё не напоминали
//   - локальное время >= HourFrom
func Due(rule Rule, s Settings, st streak.Streak, h streak.History, today string, hour int) bool {
	if s.TelegramChatID == 0 {
		return false
	}
	if st.CurrentStreak < rule.Threshold {
		return false
	}
	if h.Count(today) > 0 || s.LastReminderDate == today {
		return false
	}
	// Серия, прерванная раньше вчерашнего дня, уже потеряна
	yesterday, err := common.PrevDateKey(today)
	if err != nil || st.LastActiveDate != yesterday {
		return false
	}
	return hour >= rule.HourFrom
}

// Message — текст напоминания.
func Message(currentStreak int) string {
	return fmt.Sprintf("🔥 You are on a %s reading streak! Read a chapter today so you don't lose it.",
		common.FormatDays(currentStreak))
}
