package rewards

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// seqRNG возвращает значения по кругу.
type seqRNG struct {
	vals []int
	i    int
}

func (s *seqRNG) IntN(n int) int {
	v := s.vals[s.i%len(s.vals)] % n
	s.i++
	return v
}

func TestSpinCumulativeWalk(t *testing.T) {
	pool := Pool{
		{ID: "a", Weight: 2},
		{ID: "b", Weight: 3},
		{ID: "c", Weight: 5},
	}
	// r = IntN(10)+1
	cases := map[int]string{0: "a", 1: "a", 2: "b", 4: "b", 5: "c", 9: "c"}
	for draw, want := range cases {
		got, err := Spin(pool, &seqRNG{vals: []int{draw}})
		if err != nil {
			t.Fatalf("Spin: %v", err)
		}
		if got.ID != want {
			t.Fatalf("draw %d -> %q, want %q", draw, got.ID, want)
		}
	}
}

func TestSpinEmptyPool(t *testing.T) {
	if _, err := Spin(nil, rand.New(rand.NewPCG(1, 2))); err != ErrEmptyPool {
		t.Fatalf("err=%v, want ErrEmptyPool", err)
	}
	if _, err := Spin(Pool{{ID: "a"}}, rand.New(rand.NewPCG(1, 2))); err != ErrEmptyPool {
		t.Fatalf("zero weights: err=%v, want ErrEmptyPool", err)
	}
}

func TestSpinDistribution(t *testing.T) {
	pool := Pool{{ID: "A", Weight: 1}, {ID: "B", Weight: 99}}
	rng := rand.New(rand.NewPCG(42, 1024))
	const draws = 100_000
	hits := 0
	for i := 0; i < draws; i++ {
		r, err := Spin(pool, rng)
		if err != nil {
			t.Fatalf("Spin: %v", err)
		}
		if r.ID == "A" {
			hits++
		}
	}
	freq := float64(hits) / draws
	if freq < 0.008 || freq > 0.012 {
		t.Fatalf("frequency of A=%.4f, want about 0.01", freq)
	}
}

func TestHeavenlyPool(t *testing.T) {
	base := DefaultTables().Daily
	h := HeavenlyPool(base)
	if len(h) != len(base) {
		t.Fatalf("len=%d, want %d", len(h), len(base))
	}
	for i := range base {
		want := base[i].Weight
		switch base[i].Rarity {
		case Rare:
			want *= 2
		case Epic:
			want *= 3
		}
		if h[i].Weight != want {
			t.Fatalf("%s weight=%d, want %d", h[i].ID, h[i].Weight, want)
		}
	}
	if base[3].Weight != 10 {
		t.Fatalf("base pool mutated: grace_token weight=%d", base[3].Weight)
	}

	// Порядок не влияет на множители
	reversed := Pool{base[5], base[0]}
	hr := HeavenlyPool(reversed)
	if hr[0].Weight != 12 || hr[1].Weight != 35 {
		t.Fatalf("reversed heavenly=%+v", hr)
	}
}

func TestResolveRandomRange(t *testing.T) {
	tables := DefaultTables()
	box := tables.MysteryBox[0]
	rng := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 1000; i++ {
		r := Resolve(box, rng, tables)
		if r.Value < 100 || r.Value > 500 {
			t.Fatalf("faith_points value=%d outside 100..500", r.Value)
		}
	}
	if v := Resolve(tables.Daily[0], rng, tables); v.Value != 50 {
		t.Fatalf("fixed value changed to %d", v.Value)
	}
	if v := Resolve(tables.Daily[1], rng, tables); v.Message == "" {
		t.Fatalf("scripture verse without message")
	}
}

func TestDailyAvailable(t *testing.T) {
	if !DailyAvailable(Rewards{}, "2026-03-01") {
		t.Fatalf("never spun must be available")
	}
	if DailyAvailable(Rewards{LastSpinDate: "2026-03-01"}, "2026-03-01") {
		t.Fatalf("same day must not be available")
	}
	if !DailyAvailable(Rewards{LastSpinDate: "2026-02-28"}, "2026-03-01") {
		t.Fatalf("next day must be available")
	}
}

func TestAppendHistoryEvictsOldest(t *testing.T) {
	var r Rewards
	for i := 0; i < 25; i++ {
		r = AppendHistory(r, SpinRecord{ID: string(rune('a' + i)), At: time.Unix(int64(i), 0)})
	}
	if len(r.SpinHistory) != MaxHistory {
		t.Fatalf("history=%d, want %d", len(r.SpinHistory), MaxHistory)
	}
	if r.SpinHistory[0].ID != "f" || r.SpinHistory[MaxHistory-1].ID != "y" {
		t.Fatalf("history order = %s..%s", r.SpinHistory[0].ID, r.SpinHistory[MaxHistory-1].ID)
	}
}

func TestTokens(t *testing.T) {
	var r Rewards
	r = AddToken(r, HeavenlySpinToken, "Heavenly Spin Token", 1)
	r = AddToken(r, HeavenlySpinToken, "Heavenly Spin Token", 2)
	r = AddToken(r, SuperGraceToken, "Super Grace Token", 1)
	if len(r.Tokens) != 2 || TokenQuantity(r, HeavenlySpinToken) != 3 {
		t.Fatalf("tokens=%+v", r.Tokens)
	}
	var ok bool
	for i := 0; i < 3; i++ {
		if r, ok = ConsumeToken(r, HeavenlySpinToken); !ok {
			t.Fatalf("consume %d failed", i)
		}
	}
	if _, ok = ConsumeToken(r, HeavenlySpinToken); ok {
		t.Fatalf("consumed token with zero quantity")
	}
	if _, ok = ConsumeToken(r, "unknown"); ok {
		t.Fatalf("consumed unknown token")
	}
}

func TestLoadTables(t *testing.T) {
	def, err := LoadTables("")
	if err != nil || len(def.Daily) != 6 || len(def.MysteryBox) != 5 {
		t.Fatalf("defaults=%+v err=%v", def, err)
	}

	path := filepath.Join(t.TempDir(), "rewards.toml")
	body := `
verses = ["In the beginning was the Word."]

[[daily]]
id = "faith_points"
name = "Faith Points"
rarity = "common"
weight = 1
value = 75

[[daily]]
id = "mystery_box"
name = "Mystery Box"
rarity = "epic"
weight = 1
value = 1
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	if len(got.Daily) != 2 || got.Daily[0].Value != 75 {
		t.Fatalf("daily=%+v", got.Daily)
	}
	if len(got.MysteryBox) != 5 {
		t.Fatalf("mystery box must fall back to defaults, got %d entries", len(got.MysteryBox))
	}
	if len(got.Verses) != 1 || len(got.Encouragements) == 0 {
		t.Fatalf("verses=%v encouragements=%v", got.Verses, got.Encouragements)
	}
}

func TestLoadTablesRejectsUnknownReward(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rewards.toml")
	body := `
[[daily]]
id = "free_pizza"
rarity = "common"
weight = 1
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadTables(path); err == nil {
		t.Fatalf("expected error for unsupported reward id")
	}
	if _, err := LoadTables(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
