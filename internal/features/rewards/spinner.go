// Package rewards — spinner.go содержит взвешенный выбор награды.
package rewards

import (
	"errors"
	"fmt"
)

// ErrEmptyPool — в пуле нет ни одной записи с положительным весом.
var ErrEmptyPool = errors.New("пул наград пуст")

// Spin выбирает награду из пула.
//
// Алгоритм:
//  1. total — сумма весов
//  2. r равномерно в [1, total]
//  3. идём по списку, накапливая вес, и берём первую запись,
//     у которой накопленный вес >= r
func Spin(pool Pool, rng RNG) (Reward, error) {
	total := 0
	for _, r := range pool {
		if r.Weight > 0 {
			total += r.Weight
		}
	}
	if total == 0 {
		return Reward{}, ErrEmptyPool
	}

	r := rng.IntN(total) + 1
	cumulative := 0
	for _, reward := range pool {
		if reward.Weight <= 0 {
			continue
		}
		cumulative += reward.Weight
		if cumulative >= r {
			return reward, nil
		}
	}
	// Недостижимо при корректном RNG
	return Reward{}, fmt.Errorf("rng вернул значение вне диапазона: %d из %d", r, total)
}

// HeavenlyPool возвращает копию пула, где вес rare умножен на 2,
// а вес epic на 3.
func HeavenlyPool(base Pool) Pool {
	pool := copyPool(base)
	for i := range pool {
		switch pool[i].Rarity {
		case Rare:
			pool[i].Weight *= 2
		case Epic:
			pool[i].Weight *= 3
		}
	}
	return pool
}

// Resolve доводит выбранную награду до конкретного значения:
// случайное значение из диапазона и текст для информационных наград.
func Resolve(r Reward, rng RNG, t Tables) Reward {
	if r.MaxValue > 0 && r.MaxValue >= r.MinValue {
		r.Value = r.MinValue + rng.IntN(r.MaxValue-r.MinValue+1)
		r.MinValue, r.MaxValue = 0, 0
	}
	switch r.ID {
	case ScriptureVerse:
		if len(t.Verses) > 0 {
			r.Message = t.Verses[rng.IntN(len(t.Verses))]
		}
	case Encouragement:
		if len(t.Encouragements) > 0 {
			r.Message = t.Encouragements[rng.IntN(len(t.Encouragements))]
		}
	}
	return r
}

// copyPool создаёт копию пула, чтобы изменения весов не затронули таблицу.
func copyPool(src Pool) Pool {
	dst := make(Pool, len(src))
	copy(dst, src)
	return dst
}
