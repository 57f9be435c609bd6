// Package rewards — ledger.go содержит операции над записью наград:
// ежедневное ограничение, история спинов, жетоны и сундуки.
package rewards

// DailyAvailable — ежедневный спин ещё не использован сегодня.
// Даты сравниваются как календарные строки, без времени.
func DailyAvailable(r Rewards, today string) bool {
	return r.LastSpinDate != today
}

// AppendHistory добавляет спин в историю и вытесняет самые старые
// записи сверх MaxHistory.
func AppendHistory(r Rewards, rec SpinRecord) Rewards {
	r.SpinHistory = append(r.SpinHistory, rec)
	if extra := len(r.SpinHistory) - MaxHistory; extra > 0 {
		r.SpinHistory = append([]SpinRecord(nil), r.SpinHistory[extra:]...)
	}
	return r
}

// TokenQuantity возвращает количество жетона по id.
func TokenQuantity(r Rewards, id string) int {
	for _, t := range r.Tokens {
		if t.ID == id {
			return t.Quantity
		}
	}
	return 0
}

// AddToken прибавляет quantity к жетону или создаёт его.
func AddToken(r Rewards, id, name string, quantity int) Rewards {
	if quantity <= 0 {
		return r
	}
	for i := range r.Tokens {
		if r.Tokens[i].ID == id {
			r.Tokens[i].Quantity += quantity
			return r
		}
	}
	r.Tokens = append(r.Tokens, Token{ID: id, Name: name, Quantity: quantity})
	return r
}

// ConsumeToken списывает один жетон. Возвращает false, если жетонов нет.
func ConsumeToken(r Rewards, id string) (Rewards, bool) {
	for i := range r.Tokens {
		if r.Tokens[i].ID == id && r.Tokens[i].Quantity > 0 {
			r.Tokens[i].Quantity--
			return r, true
		}
	}
	return r, false
}

// Clone возвращает глубокую копию записи.
func (r Rewards) Clone() Rewards {
	out := r
	out.SpinHistory = append([]SpinRecord(nil), r.SpinHistory...)
	out.Tokens = append([]Token(nil), r.Tokens...)
	return out
}
