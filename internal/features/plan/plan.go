// Package plan хранит план чтения пользователя: фиксированный
// пятилетний или пользовательский со структурой, проверенной на входе.
package plan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"serotonyl.ru/bible-reading/internal/bible"
	"serotonyl.ru/bible-reading/internal/common"
)

// Type — вид плана.
type Type string

const (
	FiveYear Type = "5_year"
	Custom   Type = "custom"
)

// Plan — запись плана. Для FiveYear структура всегда равна константе,
// для Custom — проверенной структуре пользователя.
type Plan struct {
	Type        Type              `json:"plan_type"`
	StartDate   string            `json:"start_date"`
	CurrentYear int               `json:"current_year"`
	Structure   []bible.YearGroup `json:"structure"`
}

// New создаёт пятилетний план, начинающийся сегодня.
func New(today time.Time) Plan {
	return Plan{
		Type:        FiveYear,
		StartDate:   common.DateKey(today),
		CurrentYear: 1,
		Structure:   bible.FiveYearPlan(),
	}
}

// GetOrCreate возвращает сохранённый план или новый пятилетний.
// created = true, если план нужно сохранить.
func GetOrCreate(p Plan, found bool, today time.Time) (Plan, bool) {
	if !found {
		return New(today), true
	}
	p.CurrentYear = CurrentYear(p, today)
	return p, false
}

// Update меняет вид плана. Для custom структура обязательна и проверяется.
// Дата начала сохраняется, у нового плана — сегодня.
func Update(p Plan, found bool, newType string, structure json.RawMessage, today time.Time) (Plan, error) {
	if !found {
		p = New(today)
	}

	switch Type(newType) {
	case FiveYear:
		p.Type = FiveYear
		p.Structure = bible.FiveYearPlan()
	case Custom:
		groups, err := ParseStructure(structure)
		if err != nil {
			return Plan{}, err
		}
		p.Type = Custom
		p.Structure = groups
	case "":
		return Plan{}, common.MissingParam("plan_type")
	default:
		return Plan{}, common.InvalidParam("plan_type", fmt.Sprintf("unknown plan type %q", newType))
	}

	p.CurrentYear = CurrentYear(p, today)
	return p, nil
}

// ParseStructure разбирает и проверяет пользовательскую структуру:
// массив групп {year, focus, books}, неизвестные поля запрещены,
// хотя бы одна группа, в каждой хотя бы одна известная книга.
// Имена книг приводятся к ключам каталога.
func ParseStructure(raw json.RawMessage) ([]bible.YearGroup, error) {
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, common.MissingParam("structure")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var groups []bible.YearGroup
	if err := dec.Decode(&groups); err != nil {
		return nil, common.InvalidParam("structure", "must be an array of {year, focus, books}: "+err.Error())
	}
	if len(groups) == 0 {
		return nil, common.InvalidParam("structure", "at least one year group is required")
	}

	for i := range groups {
		g := &groups[i]
		if g.Year <= 0 {
			g.Year = i + 1
		}
		if len(g.Books) == 0 {
			return nil, common.InvalidParam("structure", fmt.Sprintf("year group %d has no books", i+1))
		}
		for j, name := range g.Books {
			b, ok := bible.Lookup(name)
			if !ok {
				return nil, common.InvalidParam("structure", fmt.Sprintf("unknown book %q in year group %d", name, i+1))
			}
			g.Books[j] = b.Key
		}
	}
	return groups, nil
}

// CurrentYear — полных лет с даты начала + 1, но не больше числа групп.
func CurrentYear(p Plan, today time.Time) int {
	start, err := common.ParseDate(p.StartDate, today.Location())
	if err != nil {
		return 1
	}
	day := common.StartOfDay(today)
	years := day.Year() - start.Year()
	// годовщина в этом году ещё не наступила
	if start.AddDate(years, 0, 0).After(day) {
		years--
	}
	year := max(years+1, 1)
	if n := len(p.Structure); n > 0 && year > n {
		year = n
	}
	return year
}
