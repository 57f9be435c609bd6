// Package common содержит общие утилиты, используемые во всём проекте.
// Сюда входят: ошибки, часы, работа с календарными датами и склонение
// для текстов напоминаний.
package common

import (
	"fmt"
	"time"
)

// DateLayout — формат ключей истории чтения (ISO-дата).
const DateLayout = "2006-01-02"

// Clock отдаёт текущее время. В рамках одного запроса движок берёт время
// один раз, поэтому все сравнения дат согласованы.
type Clock interface {
	Now() time.Time
}

// SystemClock — часы в заданном часовом поясе.
type SystemClock struct {
	Location *time.Location
}

// Now возвращает текущее время в поясе приложения.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock всегда возвращает одно и то же время. Используется в тестах.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }

// Advance сдвигает часы на d.
func (c *FixedClock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// LoadLocation загружает часовой пояс. Если не удалось — используем UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, fmt.Errorf("неизвестный часовой пояс %q: %w", name, err)
	}
	return loc, nil
}

// DateKey возвращает календарную дату t в формате 2006-01-02.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate разбирает дату в формате 2006-01-02 в поясе loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation(DateLayout, s, loc)
}

// PrevDateKey возвращает календарный день перед date.
// Сдвиг через AddDate, а не через 24 часа, чтобы переход на летнее время
// не ломал расчёт.
func PrevDateKey(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("некорректная дата %q: %w", date, err)
	}
	return DateKey(d.AddDate(0, 0, -1)), nil
}

// StartOfDay возвращает полночь того же дня в поясе t.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
