// Package achievements — checker.go проверяет условия достижений и
// разблокирует их идемпотентно.
package achievements

import (
	"time"

	"serotonyl.ru/bible-reading/internal/bible"
	"serotonyl.ru/bible-reading/internal/features/progress"
)

// Has проверяет, разблокировано ли достижение (линейный поиск).
func (a Achievements) Has(id string) bool {
	for _, u := range a.Unlocked {
		if u.ID == id {
			return true
		}
	}
	return false
}

// Unlock добавляет достижение, если его ещё нет.
// Возвращает запись, разблокированное достижение и true, если оно новое.
// Неизвестный id ничего не меняет.
func Unlock(a Achievements, id string, now time.Time) (Achievements, Unlocked, bool) {
	if a.Has(id) {
		return a, Unlocked{}, false
	}
	def, ok := Lookup(id)
	if !ok {
		return a, Unlocked{}, false
	}
	u := Unlocked{
		ID:          def.ID,
		Name:        def.Name,
		Description: def.Description,
		Icon:        def.Icon,
		Rarity:      def.Rarity,
		UnlockedAt:  now.UTC(),
	}
	a.Unlocked = append(a.Unlocked, u)
	return a, u, true
}

// StreakEarned возвращает id достижений серии, порог которых достигнут.
func StreakEarned(current int) []string {
	var ids []string
	for _, d := range ByCategory(CategoryStreak) {
		if current >= d.Threshold {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// LevelEarned возвращает id достижений уровня, порог которых достигнут.
// Все пороги ниже текущего уровня попадают в список при каждой проверке,
// повторы отсекает Unlock.
func LevelEarned(level int) []string {
	var ids []string
	for _, d := range ByCategory(CategoryLevel) {
		if level >= d.Threshold {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// ReadingEarned возвращает достижения за чтение: первая глава, книги,
// заветы и вся Библия.
func ReadingEarned(p progress.Progress) []string {
	var ids []string

	for _, chapters := range p {
		if len(chapters) > 0 {
			ids = append(ids, "first_chapter")
			break
		}
	}

	for _, d := range ByCategory(CategoryBook) {
		if progress.IsBookComplete(p, d.Target) {
			ids = append(ids, d.ID)
		}
	}

	old := progress.IsTestamentComplete(p, bible.OldTestament)
	nt := progress.IsTestamentComplete(p, bible.NewTestament)
	if old {
		ids = append(ids, "old_testament_complete")
	}
	if nt {
		ids = append(ids, "new_testament_complete")
	}
	if progress.IsBibleComplete(p) {
		ids = append(ids, "bible_complete")
	}
	return ids
}

// Statuses объединяет таблицу определений с записью пользователя.
func Statuses(a Achievements) []Status {
	unlocked := make(map[string]time.Time, len(a.Unlocked))
	for _, u := range a.Unlocked {
		unlocked[u.ID] = u.UnlockedAt
	}
	defs := Definitions()
	out := make([]Status, 0, len(defs))
	for _, d := range defs {
		st := Status{Definition: d}
		if at, ok := unlocked[d.ID]; ok {
			st.Unlocked = true
			st.UnlockedAt = &at
		}
		out = append(out, st)
	}
	return out
}
