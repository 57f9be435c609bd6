// Package bible содержит неизменяемые справочники: 66 книг канона
// с числом глав и заветом, а также структуру пятилетнего плана чтения.
// Таблицы строятся один раз при старте процесса и не меняются.
package bible

import (
	"strings"
)

// Testament — один из двух заветов.
type Testament string

const (
	OldTestament Testament = "old"
	NewTestament Testament = "new"
)

// Book — книга канона.
type Book struct {
	Key         string    `json:"key"`  // ключ в прогрессе: "genesis", "1_samuel"
	Name        string    `json:"name"` // отображаемое имя
	Chapters    int       `json:"chapters"`
	Testament   Testament `json:"testament"`
	Achievement string    `json:"achievement,omitempty"` // id достижения за книгу, если есть
}

// books — канонический порядок. Не экспортируется, чтобы никто не мутировал срез.
var books = []Book{
	// Ветхий Завет
	{Key: "genesis", Name: "Genesis", Chapters: 50, Testament: OldTestament, Achievement: "book_genesis"},
	{Key: "exodus", Name: "Exodus", Chapters: 40, Testament: OldTestament, Achievement: "book_exodus"},
	{Key: "leviticus", Name: "Leviticus", Chapters: 27, Testament: OldTestament},
	{Key: "numbers", Name: "Numbers", Chapters: 36, Testament: OldTestament},
	{Key: "deuteronomy", Name: "Deuteronomy", Chapters: 34, Testament: OldTestament},
	{Key: "joshua", Name: "Joshua", Chapters: 24, Testament: OldTestament},
	{Key: "judges", Name: "Judges", Chapters: 21, Testament: OldTestament},
	{Key: "ruth", Name: "Ruth", Chapters: 4, Testament: OldTestament, Achievement: "book_ruth"},
	{Key: "1_samuel", Name: "1 Samuel", Chapters: 31, Testament: OldTestament},
	{Key: "2_samuel", Name: "2 Samuel", Chapters: 24, Testament: OldTestament},
	{Key: "1_kings", Name: "1 Kings", Chapters: 22, Testament: OldTestament},
	{Key: "2_kings", Name: "2 Kings", Chapters: 25, Testament: OldTestament},
	{Key: "1_chronicles", Name: "1 Chronicles", Chapters: 29, Testament: OldTestament},
	{Key: "2_chronicles", Name: "2 Chronicles", Chapters: 36, Testament: OldTestament},
	{Key: "ezra", Name: "Ezra", Chapters: 10, Testament: OldTestament},
	{Key: "nehemiah", Name: "Nehemiah", Chapters: 13, Testament: OldTestament},
	{Key: "esther", Name: "Esther", Chapters: 10, Testament: OldTestament},
	{Key: "job", Name: "Job", Chapters: 42, Testament: OldTestament},
	{Key: "psalms", Name: "Psalms", Chapters: 150, Testament: OldTestament, Achievement: "book_psalms"},
	{Key: "proverbs", Name: "Proverbs", Chapters: 31, Testament: OldTestament, Achievement: "book_proverbs"},
	{Key: "ecclesiastes", Name: "Ecclesiastes", Chapters: 12, Testament: OldTestament},
	{Key: "song_of_solomon", Name: "Song of Solomon", Chapters: 8, Testament: OldTestament},
	{Key: "isaiah", Name: "Isaiah", Chapters: 66, Testament: OldTestament, Achievement: "book_isaiah"},
	{Key: "jeremiah", Name: "Jeremiah", Chapters: 52, Testament: OldTestament},
	{Key: "lamentations", Name: "Lamentations", Chapters: 5, Testament: OldTestament},
	{Key: "ezekiel", Name: "Ezekiel", Chapters: 48, Testament: OldTestament},
	{Key: "daniel", Name: "Daniel", Chapters: 12, Testament: OldTestament},
	{Key: "hosea", Name: "Hosea", Chapters: 14, Testament: OldTestament},
	{Key: "joel", Name: "Joel", Chapters: 3, Testament: OldTestament},
	{Key: "amos", Name: "Amos", Chapters: 9, Testament: OldTestament},
	{Key: "obadiah", Name: "Obadiah", Chapters: 1, Testament: OldTestament},
	{Key: "jonah", Name: "Jonah", Chapters: 4, Testament: OldTestament},
	{Key: "micah", Name: "Micah", Chapters: 7, Testament: OldTestament},
	{Key: "nahum", Name: "Nahum", Chapters: 3, Testament: OldTestament},
	{Key: "habakkuk", Name: "Habakkuk", Chapters: 3, Testament: OldTestament},
	{Key: "zephaniah", Name: "Zephaniah", Chapters: 3, Testament: OldTestament},
	{Key: "haggai", Name: "Haggai", Chapters: 2, Testament: OldTestament},
	{Key: "zechariah", Name: "Zechariah", Chapters: 14, Testament: OldTestament},
	{Key: "malachi", Name: "Malachi", Chapters: 4, Testament: OldTestament},

	// Новый Завет
	{Key: "matthew", Name: "Matthew", Chapters: 28, Testament: NewTestament, Achievement: "book_matthew"},
	{Key: "mark", Name: "Mark", Chapters: 16, Testament: NewTestament, Achievement: "book_mark"},
	{Key: "luke", Name: "Luke", Chapters: 24, Testament: NewTestament, Achievement: "book_luke"},
	{Key: "john", Name: "John", Chapters: 21, Testament: NewTestament, Achievement: "book_john"},
	{Key: "acts", Name: "Acts", Chapters: 28, Testament: NewTestament, Achievement: "book_acts"},
	{Key: "romans", Name: "Romans", Chapters: 16, Testament: NewTestament, Achievement: "book_romans"},
	{Key: "1_corinthians", Name: "1 Corinthians", Chapters: 16, Testament: NewTestament},
	{Key: "2_corinthians", Name: "2 Corinthians", Chapters: 13, Testament: NewTestament},
	{Key: "galatians", Name: "Galatians", Chapters: 6, Testament: NewTestament},
	{Key: "ephesians", Name: "Ephesians", Chapters: 6, Testament: NewTestament},
	{Key: "philippians", Name: "Philippians", Chapters: 4, Testament: NewTestament},
	{Key: "colossians", Name: "Colossians", Chapters: 4, Testament: NewTestament},
	{Key: "1_thessalonians", Name: "1 Thessalonians", Chapters: 5, Testament: NewTestament},
	{Key: "2_thessalonians", Name: "2 Thessalonians", Chapters: 3, Testament: NewTestament},
	{Key: "1_timothy", Name: "1 Timothy", Chapters: 6, Testament: NewTestament},
	{Key: "2_timothy", Name: "2 Timothy", Chapters: 4, Testament: NewTestament},
	{Key: "titus", Name: "Titus", Chapters: 3, Testament: NewTestament},
	{Key: "philemon", Name: "Philemon", Chapters: 1, Testament: NewTestament},
	{Key: "hebrews", Name: "Hebrews", Chapters: 13, Testament: NewTestament},
	{Key: "james", Name: "James", Chapters: 5, Testament: NewTestament},
	{Key: "1_peter", Name: "1 Peter", Chapters: 5, Testament: NewTestament},
	{Key: "2_peter", Name: "2 Peter", Chapters: 3, Testament: NewTestament},
	{Key: "1_john", Name: "1 John", Chapters: 5, Testament: NewTestament},
	{Key: "2_john", Name: "2 John", Chapters: 1, Testament: NewTestament},
	{Key: "3_john", Name: "3 John", Chapters: 1, Testament: NewTestament},
	{Key: "jude", Name: "Jude", Chapters: 1, Testament: NewTestament},
	{Key: "revelation", Name: "Revelation", Chapters: 22, Testament: NewTestament, Achievement: "book_revelation"},
}

var byKey = func() map[string]Book {
	m := make(map[string]Book, len(books))
	for _, b := range books {
		m[b.Key] = b
	}
	return m
}()

// Books возвращает копию каталога в каноническом порядке.
func Books() []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}

// Lookup ищет книгу по ключу. Ключ нормализуется.
func Lookup(key string) (Book, bool) {
	b, ok := byKey[NormalizeKey(key)]
	return b, ok
}

// TestamentBooks возвращает книги завета в каноническом порядке.
func TestamentBooks(t Testament) []Book {
	var out []Book
	for _, b := range books {
		if b.Testament == t {
			out = append(out, b)
		}
	}
	return out
}

// NormalizeKey приводит имя книги к ключу каталога:
// "1 Samuel" → "1_samuel", " Song of Solomon " → "song_of_solomon".
func NormalizeKey(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.Fields(s), "_")
	return strings.ReplaceAll(s, "-", "_")
}
