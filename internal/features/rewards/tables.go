// Package rewards — tables.go содержит встроенные пулы наград и загрузку
// пулов из TOML-файла.
package rewards

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Tables — неизменяемые таблицы наград, загружаются один раз при старте.
type Tables struct {
	Daily          Pool     `toml:"daily"`
	MysteryBox     Pool     `toml:"mystery_box"`
	Verses         []string `toml:"verses"`
	Encouragements []string `toml:"encouragements"`
}

// Heavenly возвращает пул небесного спина.
func (t Tables) Heavenly() Pool {
	return HeavenlyPool(t.Daily)
}

// defaultDaily — пул ежедневного спина.
var defaultDaily = Pool{
	{ID: FaithPoints, Name: "Faith Points", Rarity: Common, Weight: 35, Value: 50},
	{ID: ScriptureVerse, Name: "Scripture Verse", Rarity: Common, Weight: 25},
	{ID: Encouragement, Name: "Encouragement", Rarity: Common, Weight: 20},
	{ID: GraceToken, Name: "Grace Token", Rarity: Rare, Weight: 10, Value: 1},
	{ID: StreakBooster, Name: "Streak Booster", Rarity: Epic, Weight: 6, Value: 1},
	{ID: MysteryBox, Name: "Mystery Box", Rarity: Epic, Weight: 4, Value: 1},
}

// defaultMysteryBox — пул сундука. Очки веры выбираются из диапазона.
var defaultMysteryBox = Pool{
	{ID: FaithPoints, Name: "Faith Points", Rarity: Common, Weight: 40, MinValue: 100, MaxValue: 500},
	{ID: HeavenlySpinToken, Name: "Heavenly Spin Token", Rarity: Rare, Weight: 25, Value: 1},
	{ID: SuperGraceToken, Name: "Super Grace Token", Rarity: Rare, Weight: 15, Value: 1},
	{ID: StreakBooster, Name: "Streak Booster", Rarity: Epic, Weight: 15, Value: 3},
	{ID: LevelSkip, Name: "Level Skip", Rarity: Legendary, Weight: 5, Value: 1},
}

var defaultVerses = []string{
	"Thy word is a lamp unto my feet, and a light unto my path. (Psalm 119:105)",
	"Trust in the LORD with all thine heart; and lean not unto thine own understanding. (Proverbs 3:5)",
	"I can do all things through Christ which strengtheneth me. (Philippians 4:13)",
	"The grass withereth, the flower fadeth: but the word of our God shall stand for ever. (Isaiah 40:8)",
	"Be strong and of a good courage; be not afraid. (Joshua 1:9)",
}

var defaultEncouragements = []string{
	"Every chapter is a step closer. Keep going!",
	"Your faithfulness today builds the habit of tomorrow.",
	"Small daily reading adds up to the whole counsel of God.",
	"Well done. Come back tomorrow to keep your streak alive.",
}

// DefaultTables возвращает копию встроенных таблиц.
func DefaultTables() Tables {
	return Tables{
		Daily:          copyPool(defaultDaily),
		MysteryBox:     copyPool(defaultMysteryBox),
		Verses:         append([]string(nil), defaultVerses...),
		Encouragements: append([]string(nil), defaultEncouragements...),
	}
}

// dailyIDs и boxIDs — награды, которые умеет применять движок для каждого пула.
var (
	dailyIDs = map[string]bool{
		FaithPoints: true, ScriptureVerse: true, Encouragement: true,
		GraceToken: true, StreakBooster: true, MysteryBox: true,
	}
	boxIDs = map[string]bool{
		FaithPoints: true, HeavenlySpinToken: true, SuperGraceToken: true,
		StreakBooster: true, LevelSkip: true, GraceToken: true,
	}
)

// LoadTables читает таблицы из TOML-файла. Пустой путь — встроенные таблицы.
// Отсутствующие в файле разделы берутся из встроенных таблиц.
func LoadTables(path string) (Tables, error) {
	def := DefaultTables()
	if path == "" {
		return def, nil
	}
	if _, err := os.Stat(path); err != nil {
		return Tables{}, fmt.Errorf("файл наград недоступен: %w", err)
	}

	var t Tables
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return Tables{}, fmt.Errorf("ошибка разбора файла наград: %w", err)
	}
	if len(t.Daily) == 0 {
		t.Daily = def.Daily
	}
	if len(t.MysteryBox) == 0 {
		t.MysteryBox = def.MysteryBox
	}
	if len(t.Verses) == 0 {
		t.Verses = def.Verses
	}
	if len(t.Encouragements) == 0 {
		t.Encouragements = def.Encouragements
	}
	if err := t.Validate(); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// Validate проверяет, что пулы можно разыгрывать.
func (t Tables) Validate() error {
	if err := validatePool("daily", t.Daily, dailyIDs); err != nil {
		return err
	}
	return validatePool("mystery_box", t.MysteryBox, boxIDs)
}

func validatePool(name string, pool Pool, allowed map[string]bool) error {
	if len(pool) == 0 {
		return fmt.Errorf("пул %s пуст", name)
	}
	total := 0
	for i, r := range pool {
		if !allowed[r.ID] {
			return fmt.Errorf("пул %s, запись %d: награда %q не поддерживается", name, i, r.ID)
		}
		switch r.Rarity {
		case Common, Rare, Epic, Legendary:
		default:
			return fmt.Errorf("пул %s, запись %d: неизвестная редкость %q", name, i, r.Rarity)
		}
		if r.Weight < 0 {
			return fmt.Errorf("пул %s, запись %d: отрицательный вес", name, i)
		}
		if r.MaxValue > 0 && r.MaxValue < r.MinValue {
			return fmt.Errorf("пул %s, запись %d: max_value меньше min_value", name, i)
		}
		total += r.Weight
	}
	if total == 0 {
		return fmt.Errorf("пул %s: сумма весов равна нулю", name)
	}
	return nil
}
