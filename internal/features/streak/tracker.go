// Package streak — tracker.go содержит расчёт серии по истории чтения.
package streak

import (
	"fmt"
	"time"

	"serotonyl.ru/bible-reading/internal/common"
)

// RecordActivity гарантирует history[date] >= 1.
// Большее значение не перезаписывается и не уменьшается.
func RecordActivity(h History, date string) History {
	if h == nil {
		h = History{}
	}
	if h[date] < 1 {
		h[date] = 1
	}
	return h
}

// AddChapters прибавляет n прочитанных глав к дате.
func AddChapters(h History, date string, n int) History {
	if h == nil {
		h = History{}
	}
	if n > 0 {
		h[date] += n
	}
	return h
}

// UpdateStreak пересчитывает серию за дату.
//
// Алгоритм:
//  1. Если за дату нет чтения — серию не трогаем (NoActivity)
//  2. Если дата уже засчитана — повторно не увеличиваем (AlreadyCounted)
//  3. Если за предыдущий день есть чтение — серия +1, иначе серия = 1
//  4. Рекорд — максимум из рекорда и текущей серии
func UpdateStreak(h History, s Streak, date string) (Streak, Outcome, error) {
	if h.Count(date) <= 0 {
		return s, NoActivity, nil
	}
	if s.LastActiveDate == date {
		return s, AlreadyCounted, nil
	}

	prev, err := common.PrevDateKey(date)
	if err != nil {
		return s, NoActivity, err
	}

	if h.Count(prev) > 0 {
		s.CurrentStreak++
	} else {
		s.CurrentStreak = 1
	}
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastActiveDate = date
	return s, Updated, nil
}

// Boost добавляет n дней к текущей серии (награда streak_booster)
// и обновляет рекорд.
func Boost(s Streak, n int) Streak {
	if n <= 0 {
		return s
	}
	s.CurrentStreak += n
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return s
}

// Last30Days возвращает окно активности за 30 дней, от старых к новым,
// последний элемент — today.
func Last30Days(h History, today string) ([]Day, error) {
	t, err := time.Parse(common.DateLayout, today)
	if err != nil {
		return nil, fmt.Errorf("некорректная дата %q: %w", today, err)
	}
	days := make([]Day, 0, WindowDays)
	for offset := WindowDays - 1; offset >= 0; offset-- {
		date := common.DateKey(t.AddDate(0, 0, -offset))
		n := h.Count(date)
		days = append(days, Day{Date: date, Completed: n > 0, ChaptersRead: n})
	}
	return days, nil
}
