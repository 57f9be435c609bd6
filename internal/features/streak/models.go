// Package streak управляет системой ежедневных серий чтения.
// models.go описывает структуры серии и истории чтения.
package streak

// Streak — запись серии пользователя.
// Серия растёт на 1 за каждый календарный день подряд, в который
// прочитана хотя бы одна глава.
type Streak struct {
	CurrentStreak  int    `json:"current_streak"`             // Текущая серия (дней подряд)
	LongestStreak  int    `json:"longest_streak"`             // Личный рекорд
	LastActiveDate string `json:"last_active_date,omitempty"` // День, уже засчитанный в серию
	GraceTokens    int    `json:"grace_tokens"`               // Жетоны прощения пропуска
}

// History — число прочитанных глав по ISO-датам.
// Для серии важен только факт записи (> 0), а не количество.
type History map[string]int

// Count возвращает число глав за дату. Отсутствующая дата — 0.
func (h History) Count(date string) int {
	if h == nil {
		return 0
	}
	return h[date]
}

// Outcome — результат попытки обновить серию.
type Outcome string

const (
	// Updated — серия пересчитана за дату
	Updated Outcome = "updated"
	// NoActivity — за дату нет чтения, серия не тронута
	NoActivity Outcome = "no_activity"
	// AlreadyCounted — дата уже засчитана, повторно не увеличиваем
	AlreadyCounted Outcome = "already_counted"
)

// Day — одна ячейка 30-дневного окна активности.
type Day struct {
	Date         string `json:"date"`
	Completed    bool   `json:"completed"`
	ChaptersRead int    `json:"chapters_read"`
}

// WindowDays — размер окна активности.
const WindowDays = 30
