// Package points реализует очки веры и уровни.
// Порог следующего уровня: floor(100 × level^1.5).
package points

import "math"

// Points — запись очков пользователя.
type Points struct {
	TotalPoints       int `json:"total_points"`         // Всего заработано, не сбрасывается
	Level             int `json:"level"`                // Текущий уровень, от 1
	PointsToNextLevel int `json:"points_to_next_level"` // Порог total_points для следующего уровня
}

// CurveCoef — множитель кривой уровней.
const CurveCoef = 100.0

// PointsToNextLevel возвращает floor(100 × level^1.5).
// Уровень 5 → 1118.
func PointsToNextLevel(level int) int {
	if level <= 0 {
		return 0
	}
	// Небольшой эпсилон против ошибок округления для точных степеней (4^1.5 = 8)
	return int(math.Floor(CurveCoef*math.Pow(float64(level), 1.5) + 1e-9))
}

// New возвращает начальное состояние: уровень 1, порог для уровня 2.
func New() Points {
	return Points{Level: 1, PointsToNextLevel: PointsToNextLevel(2)}
}

// normalize чинит записи, сохранённые без уровня.
func normalize(p Points) Points {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.PointsToNextLevel <= 0 {
		p.PointsToNextLevel = PointsToNextLevel(p.Level + 1)
	}
	return p
}

// CheckLevelUp поднимает уровень, пока total_points не меньше порога.
// Возвращает новую запись и список достигнутых уровней по порядку.
//
// Проверка идёт в цикле: крупная награда может поднять сразу на несколько
// уровней, и каждый из них попадает в список.
func CheckLevelUp(p Points) (Points, []int) {
	p = normalize(p)
	var reached []int
	for p.TotalPoints >= p.PointsToNextLevel {
		p.Level++
		p.PointsToNextLevel = PointsToNextLevel(p.Level + 1)
		reached = append(reached, p.Level)
	}
	return p, reached
}

// Award начисляет amount очков и проверяет повышение уровня.
func Award(p Points, amount int) (Points, []int) {
	p = normalize(p)
	if amount > 0 {
		p.TotalPoints += amount
	}
	return CheckLevelUp(p)
}

// SkipLevel поднимает уровень на 1 напрямую (награда level_skip)
// и пересчитывает порог. Очки не меняются.
func SkipLevel(p Points) Points {
	p = normalize(p)
	p.Level++
	p.PointsToNextLevel = PointsToNextLevel(p.Level + 1)
	return p
}

// Remaining — сколько очков осталось до следующего уровня.
func Remaining(p Points) int {
	p = normalize(p)
	return max(0, p.PointsToNextLevel-p.TotalPoints)
}
