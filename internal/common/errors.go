// Package common — errors.go определяет ошибки, которые используются во всех
// модулях движка. Ошибка несёт вид (Kind) и машинный код, по которым
// HTTP-слой выбирает статус ответа.
package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind — категория ошибки.
type Kind string

const (
	KindValidation      Kind = "validation"      // не хватает или некорректен параметр
	KindUnauthenticated Kind = "unauthenticated" // не удалось определить пользователя
	KindForbidden       Kind = "forbidden"       // нарушено бизнес-правило
	KindNotFound        Kind = "not_found"
	KindInternal        Kind = "internal"
)

// Error — структурированная ошибка с машинным кодом.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал
// и для копий с уточнённым сообщением.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Status возвращает HTTP-статус для вида ошибки.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Ошибки бизнес-правил (состояние не меняется)
var (
	// ErrSpinAlreadyUsed — ежедневный спин уже использован сегодня
	ErrSpinAlreadyUsed = &Error{Kind: KindForbidden, Code: "spin_already_used", Message: "daily spin already used today"}
	// ErrNoHeavenlyTokens — нет жетонов небесного спина
	ErrNoHeavenlyTokens = &Error{Kind: KindForbidden, Code: "no_heavenly_tokens", Message: "no heavenly spin tokens available"}
	// ErrNoMysteryBoxes — нет сундуков
	ErrNoMysteryBoxes = &Error{Kind: KindForbidden, Code: "no_mystery_boxes", Message: "no mystery boxes available"}
	// ErrFeatureDisabled — функция выключена в настройках
	ErrFeatureDisabled = &Error{Kind: KindForbidden, Code: "feature_disabled", Message: "feature is disabled"}
)

// Ошибки запроса
var (
	// ErrUnauthenticated — нет сессии или токен не распознан
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Code: "unauthenticated", Message: "authentication required"}
	// ErrUnknownAction — неизвестное действие в конверте
	ErrUnknownAction = &Error{Kind: KindValidation, Code: "unknown_action", Message: "unknown action"}
	// ErrMissingParam — не передан обязательный параметр
	ErrMissingParam = &Error{Kind: KindValidation, Code: "missing_param", Message: "missing required parameter"}
	// ErrInvalidParam — параметр передан, но некорректен
	ErrInvalidParam = &Error{Kind: KindValidation, Code: "invalid_param", Message: "invalid parameter"}
	// ErrNotFound — запрошенная запись не найдена
	ErrNotFound = &Error{Kind: KindNotFound, Code: "not_found", Message: "not found"}
)

// MissingParam возвращает ErrMissingParam с именем параметра.
func MissingParam(name string) error {
	return &Error{Kind: KindValidation, Code: ErrMissingParam.Code, Message: name + " is required"}
}

// InvalidParam возвращает ErrInvalidParam с пояснением.
func InvalidParam(name, reason string) error {
	return &Error{Kind: KindValidation, Code: ErrInvalidParam.Code, Message: name + ": " + reason}
}

// AsError достаёт *Error из цепочки. Неизвестные ошибки считаются внутренними.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Code: "internal_error", Message: "internal error"}
}
