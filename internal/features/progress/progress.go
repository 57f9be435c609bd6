// Package progress — progress.go содержит изменения прогресса и
// предикаты завершения.
package progress

import (
	"slices"

	"serotonyl.ru/bible-reading/internal/bible"
)

// Add отмечает главу прочитанной. Возвращает новый прогресс и true,
// если глава раньше не была отмечена.
func Add(p Progress, book string, chapter int) (Progress, bool) {
	if p == nil {
		p = Progress{}
	}
	chapters := p[book]
	i, found := slices.BinarySearch(chapters, chapter)
	if found {
		return p, false
	}
	p[book] = slices.Insert(chapters, i, chapter)
	return p, true
}

// RemoveBook удаляет книгу из прогресса целиком (админская очистка).
// Возвращает false, если книги не было.
func RemoveBook(p Progress, book string) (Progress, bool) {
	if _, ok := p[book]; !ok {
		return p, false
	}
	delete(p, book)
	return p, true
}

// completedChapters считает главы книги в диапазоне 1..total.
// Главы вне канона (пришедшие от клиента) не засчитываются.
func completedChapters(p Progress, b bible.Book) int {
	n := 0
	for _, ch := range p[b.Key] {
		if ch >= 1 && ch <= b.Chapters {
			n++
		}
	}
	return n
}

// IsBookComplete — прочитаны все главы книги.
func IsBookComplete(p Progress, book string) bool {
	b, ok := bible.Lookup(book)
	if !ok {
		return false
	}
	return completedChapters(p, b) == b.Chapters
}

// IsTestamentComplete — завершены все книги завета.
func IsTestamentComplete(p Progress, t bible.Testament) bool {
	for _, b := range bible.TestamentBooks(t) {
		if completedChapters(p, b) != b.Chapters {
			return false
		}
	}
	return true
}

// IsBibleComplete — завершены оба завета.
func IsBibleComplete(p Progress) bool {
	return IsTestamentComplete(p, bible.OldTestament) && IsTestamentComplete(p, bible.NewTestament)
}

// Summarize строит сводку по всем книгам каталога в каноническом порядке.
func Summarize(p Progress) Summary {
	var s Summary
	for _, b := range bible.Books() {
		read := completedChapters(p, b)
		bs := BookSummary{
			Book:      b.Key,
			Name:      b.Name,
			Testament: string(b.Testament),
			Read:      read,
			Total:     b.Chapters,
			Percent:   percent(read, b.Chapters),
			Completed: read == b.Chapters,
		}
		if bs.Completed {
			s.BooksComplete++
		}
		s.ChaptersRead += read
		s.TotalChapters += b.Chapters
		s.Books = append(s.Books, bs)
	}
	s.Percent = percent(s.ChaptersRead, s.TotalChapters)
	s.OldComplete = IsTestamentComplete(p, bible.OldTestament)
	s.NewComplete = IsTestamentComplete(p, bible.NewTestament)
	return s
}

// BookStatus возвращает сводку по одной книге.
func BookStatus(p Progress, book string) BookSummary {
	b := catalogBook(book)
	read := completedChapters(p, b)
	return BookSummary{
		Book:      book,
		Name:      b.Name,
		Testament: string(b.Testament),
		Read:      read,
		Total:     b.Chapters,
		Percent:   percent(read, b.Chapters),
		Completed: b.Chapters > 0 && read == b.Chapters,
	}
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(int(float64(part)*10000/float64(total))) / 100
}
