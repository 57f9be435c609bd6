// Package engine — dispatch.go: маршрутизация конверта {userId, action, params}.
package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"serotonyl.ru/bible-reading/internal/common"
)

// Действия конверта
const (
	ActionMarkAsRead          = "mark_as_read"
	ActionSpin                = "spin"
	ActionOpenMysteryBox      = "open_mystery_box"
	ActionUpdatePlan          = "update_plan"
	ActionUpdateStreak        = "update_streak"
	ActionCheckAchievements   = "check_achievements"
	ActionGetProgress         = "get_progress"
	ActionGetStreak           = "get_streak"
	ActionGetPoints           = "get_points"
	ActionUpdateSubscription  = "update_subscription"
	ActionGetRewards          = "get_rewards"
	ActionGetAchievements     = "get_achievements"
	ActionGetPlan             = "get_plan"
	ActionUpdateNotifications = "update_notifications"
)

// Envelope — запрос от вызывающей стороны.
type Envelope struct {
	UserID string          `json:"userId"`
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

// params — разобранные параметры конверта.
type params map[string]json.RawMessage

func parseParams(raw json.RawMessage) (params, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return params{}, nil
	}
	var p params
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, common.InvalidParam("params", "must be a JSON object")
	}
	return p, nil
}

func (p params) has(name string) bool {
	v, ok := p[name]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// str — строковый параметр. Отсутствие — пустая строка.
func (p params) str(name string) (string, error) {
	if !p.has(name) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(p[name], &s); err != nil {
		return "", common.InvalidParam(name, "must be a string")
	}
	return strings.TrimSpace(s), nil
}

// requiredStr — обязательный непустой строковый параметр.
func (p params) requiredStr(name string) (string, error) {
	s, err := p.str(name)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", common.MissingParam(name)
	}
	return s, nil
}

// int64 принимает число или строку с числом: формы присылают "3".
func (p params) int64(name string) (int64, bool, error) {
	if !p.has(name) {
		return 0, false, nil
	}
	raw := bytes.TrimSpace(p[name])
	if len(raw) > 0 && raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false, common.InvalidParam(name, "must be an integer")
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false, nil
		}
		raw = []byte(s)
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false, common.InvalidParam(name, "must be an integer")
	}
	return n, true, nil
}

func (p params) requiredInt(name string) (int, error) {
	n, ok, err := p.int64(name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, common.MissingParam(name)
	}
	return int(n), nil
}

// Dispatch выполняет действие конверта и возвращает его результат.
// Неизвестное действие — ErrUnknownAction; проверка параметров
// выполняется до обращения к хранилищу.
func (e *Engine) Dispatch(ctx context.Context, env Envelope) (any, error) {
	if env.UserID == "" {
		return nil, common.ErrUnauthenticated
	}
	p, err := parseParams(env.Params)
	if err != nil {
		return nil, err
	}

	switch env.Action {
	case ActionMarkAsRead:
		book, err := p.requiredStr("book")
		if err != nil {
			return nil, err
		}
		chapter, err := p.requiredInt("chapter")
		if err != nil {
			return nil, err
		}
		return e.MarkAsRead(ctx, env.UserID, book, chapter)

	case ActionSpin:
		spinType, err := p.str("spin_type")
		if err != nil {
			return nil, err
		}
		return e.Spin(ctx, env.UserID, spinType)

	case ActionOpenMysteryBox:
		return e.OpenMysteryBox(ctx, env.UserID)

	case ActionUpdatePlan:
		planType, err := p.requiredStr("plan_type")
		if err != nil {
			return nil, err
		}
		return e.UpdatePlan(ctx, env.UserID, planType, p["structure"])

	case ActionUpdateStreak:
		return e.UpdateStreak(ctx, env.UserID)

	case ActionCheckAchievements:
		return e.CheckAchievements(ctx, env.UserID)

	case ActionGetProgress:
		return e.GetProgress(ctx, env.UserID)

	case ActionGetStreak:
		return e.GetStreak(ctx, env.UserID)

	case ActionGetPoints:
		return e.GetPoints(ctx, env.UserID)

	case ActionUpdateSubscription:
		status, err := p.requiredStr("status")
		if err != nil {
			return nil, err
		}
		planName, err := p.str("plan")
		if err != nil {
			return nil, err
		}
		expiresAt, err := p.str("expires_at")
		if err != nil {
			return nil, err
		}
		return e.UpdateSubscription(ctx, env.UserID, status, planName, expiresAt)

	case ActionGetRewards:
		return e.GetRewards(ctx, env.UserID)

	case ActionGetAchievements:
		return e.GetAchievements(ctx, env.UserID)

	case ActionGetPlan:
		return e.GetPlan(ctx, env.UserID)

	case ActionUpdateNotifications:
		chatID, ok, err := p.int64("telegram_chat_id")
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, common.MissingParam("telegram_chat_id")
		}
		return e.UpdateNotifications(ctx, env.UserID, chatID)

	case "":
		return nil, common.MissingParam("action")

	default:
		return nil, common.ErrUnknownAction
	}
}
