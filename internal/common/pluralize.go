// Package common — pluralize.go содержит склонение числительных
// для текстов напоминаний.
package common

import "fmt"

// Pluralize возвращает форму слова для числа n.
//
// Примеры:
//
//	Pluralize(1, "day", "days")  → "day"
//	Pluralize(7, "day", "days")  → "days"
//	Pluralize(0, "day", "days")  → "days"
func Pluralize(n int, one, many string) string {
	if n == 1 || n == -1 {
		return one
	}
	return many
}

// FormatDays создаёт строку вида "7 days".
func FormatDays(n int) string {
	return fmt.Sprintf("%d %s", n, Pluralize(n, "day", "days"))
}

// FormatChapters создаёт строку вида "1 chapter".
func FormatChapters(n int) string {
	return fmt.Sprintf("%d %s", n, Pluralize(n, "chapter", "chapters"))
}
