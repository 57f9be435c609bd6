// Package rewards реализует ежедневный и небесный спины и сундуки.
// models.go описывает награды, пулы и запись наград пользователя.
package rewards

import "time"

// Rarity — редкость награды. Небесный пул усиливает rare и epic.
type Rarity string

const (
	Common    Rarity = "common"
	Rare      Rarity = "rare"
	Epic      Rarity = "epic"
	Legendary Rarity = "legendary"
)

// Идентификаторы наград
const (
	GraceToken        = "grace_token"
	FaithPoints       = "faith_points"
	MysteryBox        = "mystery_box"
	StreakBooster     = "streak_booster"
	HeavenlySpinToken = "heavenly_spin_token"
	SuperGraceToken   = "super_grace_token"
	LevelSkip         = "level_skip"
	ScriptureVerse    = "scripture_verse"
	Encouragement     = "encouragement"
)

// Reward — запись пула. Вес определяет вероятность выпадения.
// Если задан диапазон MinValue..MaxValue, Value выбирается случайно
// в момент выпадения.
type Reward struct {
	ID       string `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	Rarity   Rarity `json:"rarity" toml:"rarity"`
	Weight   int    `json:"-" toml:"weight"`
	Value    int    `json:"value,omitempty" toml:"value"`
	MinValue int    `json:"-" toml:"min_value"`
	MaxValue int    `json:"-" toml:"max_value"`
	Message  string `json:"message,omitempty" toml:"-"` // стих или ободрение
}

// Pool — упорядоченный список наград. Порядок важен для выбора.
type Pool []Reward

// SpinType — вид спина.
type SpinType string

const (
	SpinDaily      SpinType = "daily"
	SpinHeavenly   SpinType = "heavenly"
	SpinMysteryBox SpinType = "mystery_box"
)

// Token — расходуемый жетон пользователя.
type Token struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// SpinRecord — запись истории спинов.
type SpinRecord struct {
	ID       string    `json:"id"`
	Type     SpinType  `json:"type"`
	RewardID string    `json:"reward_id"`
	Name     string    `json:"name"`
	Rarity   Rarity    `json:"rarity"`
	Value    int       `json:"value,omitempty"`
	At       time.Time `json:"timestamp"`
}

// MaxHistory — сколько спинов хранится, старые вытесняются.
const MaxHistory = 20

// Rewards — запись наград пользователя.
// daily_spin_available не хранится, а вычисляется по last_spin_date.
type Rewards struct {
	LastSpinDate string       `json:"last_spin_date,omitempty"`
	SpinHistory  []SpinRecord `json:"spin_history"`
	Tokens       []Token      `json:"rewards"`
	MysteryBoxes int          `json:"mystery_boxes"`
}

// RNG — источник случайности для выбора награды.
// *rand.Rand из math/rand/v2 подходит без адаптера.
type RNG interface {
	IntN(n int) int
}
