// Package subscription хранит статус подписки, который присылает
// платёжный сервис. Сами платежи здесь не обрабатываются.
package subscription

import (
	"fmt"
	"time"

	"serotonyl.ru/bible-reading/internal/common"
)

// Status — статус подписки.
type Status string

const (
	Active    Status = "active"
	Cancelled Status = "cancelled"
	Expired   Status = "expired"
)

// Subscription — запись подписки пользователя.
type Subscription struct {
	Status    Status     `json:"status"`
	Plan      string     `json:"plan,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Update проверяет и применяет новый статус.
// expiresAt принимается в RFC 3339 или как дата 2006-01-02 (конец дня не учитывается).
func Update(s Subscription, status, plan, expiresAt string, now time.Time) (Subscription, error) {
	switch Status(status) {
	case Active, Cancelled, Expired:
	case "":
		return Subscription{}, common.MissingParam("status")
	default:
		return Subscription{}, common.InvalidParam("status", fmt.Sprintf("unknown status %q", status))
	}

	s.Status = Status(status)
	if plan != "" {
		s.Plan = plan
	}
	if expiresAt != "" {
		t, err := parseTime(expiresAt, now.Location())
		if err != nil {
			return Subscription{}, common.InvalidParam("expires_at", "expected RFC 3339 timestamp or YYYY-MM-DD")
		}
		s.ExpiresAt = &t
	}
	s.UpdatedAt = now.UTC()
	return s, nil
}

// Expire переводит активную подписку в expired, если срок прошёл.
// Возвращает true, если запись изменилась.
func Expire(s Subscription, now time.Time) (Subscription, bool) {
	if s.Status != Active || s.ExpiresAt == nil || now.Before(*s.ExpiresAt) {
		return s, false
	}
	s.Status = Expired
	s.UpdatedAt = now.UTC()
	return s, true
}

func parseTime(v string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := common.ParseDate(v, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
