// Package progress хранит прочитанные главы и отвечает на вопросы
// о завершении книги, завета и всей Библии.
package progress

import (
	"slices"

	"serotonyl.ru/bible-reading/internal/bible"
)

// Progress — книга → отсортированный набор прочитанных глав.
// Растёт только вверх, главы не снимаются обычным потоком.
type Progress map[string][]int

// BookSummary — сводка по одной книге для ответа get_progress.
type BookSummary struct {
	Book      string  `json:"book"`
	Name      string  `json:"name"`
	Testament string  `json:"testament"`
	Read      int     `json:"read"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	Completed bool    `json:"completed"`
}

// Summary — общая сводка прогресса.
type Summary struct {
	ChaptersRead  int           `json:"chapters_read"`
	TotalChapters int           `json:"total_chapters"`
	Percent       float64       `json:"percent"`
	BooksComplete int           `json:"books_complete"`
	OldComplete   bool          `json:"old_testament_complete"`
	NewComplete   bool          `json:"new_testament_complete"`
	Books         []BookSummary `json:"books"`
}

// Has проверяет, прочитана ли глава.
func (p Progress) Has(book string, chapter int) bool {
	_, found := slices.BinarySearch(p[book], chapter)
	return found
}

// Chapters возвращает прочитанные главы книги.
func (p Progress) Chapters(book string) []int {
	return p[book]
}

// Clone возвращает глубокую копию.
func (p Progress) Clone() Progress {
	out := make(Progress, len(p))
	for k, v := range p {
		out[k] = slices.Clone(v)
	}
	return out
}

// catalogBook возвращает книгу каталога или нулевое значение.
func catalogBook(key string) bible.Book {
	b, _ := bible.Lookup(key)
	return b
}
