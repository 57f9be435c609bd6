// Package achievements — definitions.go содержит таблицу всех достижений.
package achievements

import (
	"serotonyl.ru/bible-reading/internal/bible"
)

// Пороги серий и уровней
var (
	StreakThresholds = []int{7, 30, 100, 365}
	LevelThresholds  = []int{5, 10, 25, 50}
)

var definitions = buildDefinitions()

func buildDefinitions() []Definition {
	defs := []Definition{
		{ID: "first_chapter", Name: "First Step", Description: "Read your first chapter", Icon: "📖", Rarity: Common, Category: CategoryFirst},
	}

	// Достижения за книги берутся из каталога
	for _, b := range bible.Books() {
		if b.Achievement == "" {
			continue
		}
		defs = append(defs, Definition{
			ID:          b.Achievement,
			Name:        b.Name + " Complete",
			Description: "Read every chapter of " + b.Name,
			Icon:        "📜",
			Rarity:      Rare,
			Category:    CategoryBook,
			Target:      b.Key,
		})
	}

	defs = append(defs,
		Definition{ID: "old_testament_complete", Name: "Old Testament Scholar", Description: "Read the entire Old Testament", Icon: "🏛️", Rarity: Epic, Category: CategoryTestament, Target: string(bible.OldTestament)},
		Definition{ID: "new_testament_complete", Name: "New Testament Scholar", Description: "Read the entire New Testament", Icon: "✝️", Rarity: Epic, Category: CategoryTestament, Target: string(bible.NewTestament)},
		Definition{ID: "bible_complete", Name: "Whole Counsel", Description: "Read the entire Bible", Icon: "👑", Rarity: Legendary, Category: CategoryBible},

		Definition{ID: "streak_7", Name: "Faithful Week", Description: "Read 7 days in a row", Icon: "🔥", Rarity: Common, Category: CategoryStreak, Threshold: 7},
		Definition{ID: "streak_30", Name: "Faithful Month", Description: "Read 30 days in a row", Icon: "🔥", Rarity: Rare, Category: CategoryStreak, Threshold: 30},
		Definition{ID: "streak_100", Name: "Steadfast", Description: "Read 100 days in a row", Icon: "⚡", Rarity: Epic, Category: CategoryStreak, Threshold: 100},
		Definition{ID: "streak_365", Name: "Year of the Word", Description: "Read 365 days in a row", Icon: "🌟", Rarity: Legendary, Category: CategoryStreak, Threshold: 365},

		Definition{ID: "level_5", Name: "Growing in Faith", Description: "Reach level 5", Icon: "🌱", Rarity: Common, Category: CategoryLevel, Threshold: 5},
		Definition{ID: "level_10", Name: "Rooted", Description: "Reach level 10", Icon: "🌿", Rarity: Rare, Category: CategoryLevel, Threshold: 10},
		Definition{ID: "level_25", Name: "Pillar", Description: "Reach level 25", Icon: "🌳", Rarity: Epic, Category: CategoryLevel, Threshold: 25},
		Definition{ID: "level_50", Name: "Elder", Description: "Reach level 50", Icon: "🕊️", Rarity: Legendary, Category: CategoryLevel, Threshold: 50},
	)
	return defs
}

// Definitions возвращает копию таблицы определений.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup ищет определение по id.
func Lookup(id string) (Definition, bool) {
	for _, d := range definitions {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// ByCategory возвращает определения одной категории в порядке таблицы.
func ByCategory(c Category) []Definition {
	var out []Definition
	for _, d := range definitions {
		if d.Category == c {
			out = append(out, d)
		}
	}
	return out
}
