// Package achievements реализует разовые именные достижения с редкостью.
// models.go описывает определения и записи разблокированных достижений.
package achievements

import "time"

// Rarity — редкость достижения. От неё зависит награда в очках.
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// PointsFor возвращает награду за редкость. Неизвестная редкость — 25.
func PointsFor(r Rarity) int {
	switch r {
	case Common:
		return 50
	case Rare:
		return 100
	case Epic:
		return 250
	case Legendary:
		return 500
	default:
		return 25
	}
}

// Category — группа предиката, по которой проверяется достижение.
type Category string

const (
	CategoryFirst     Category = "first"
	CategoryBook      Category = "book"
	CategoryTestament Category = "testament"
	CategoryBible     Category = "bible"
	CategoryStreak    Category = "streak"
	CategoryLevel     Category = "level"
)

// Definition — описание достижения, неизменяемая таблица.
type Definition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Rarity      Rarity   `json:"rarity"`
	Category    Category `json:"category"`
	Threshold   int      `json:"threshold,omitempty"` // для серий и уровней
	Target      string   `json:"target,omitempty"`    // книга или завет
}

// Unlocked — разблокированное достижение пользователя.
type Unlocked struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Rarity      Rarity    `json:"rarity"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// Achievements — запись пользователя. Каждый id встречается не больше раза.
type Achievements struct {
	Unlocked []Unlocked `json:"unlocked"`
}

// Status — определение с флагом разблокировки для ответа get_achievements.
type Status struct {
	Definition
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
