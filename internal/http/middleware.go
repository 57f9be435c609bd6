// Package http — HTTP-транспорт движка: маршруты, авторизация и middleware.
package http

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"serotonyl.ru/bible-reading/internal/auth"
	"serotonyl.ru/bible-reading/internal/features/admin"
)

// accessLog пишет метод, путь, статус и длительность запроса.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		entry := log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
			"remote":     r.RemoteAddr,
		})
		if ww.Status() >= http.StatusInternalServerError {
			entry.Warn("HTTP запрос")
			return
		}
		entry.Debug("HTTP запрос")
	})
}

// recoverPanic ловит панику обработчика, логирует стек и отвечает 500.
func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.WithFields(log.Fields{
					"component":  "panic_recovery",
					"panic":      fmt.Sprintf("%v", rec),
					"stack":      string(debug.Stack()),
					"request_id": middleware.GetReqID(r.Context()),
				}).Error("Паника в обработчике перехвачена")
				writeStatus(w, http.StatusInternalServerError, "internal_error", "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (a *API) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && a.isOriginAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) isOriginAllowed(origin string) bool {
	for _, allowed := range a.Origins {
		if allowed == "*" || strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}

// authMiddleware кладёт id пользователя из JWT в контекст.
func (a *API) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.TokenFromRequest(r)
		if !ok {
			writeStatus(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
			return
		}
		userID, err := a.Auth.ParseToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeStatus(w, http.StatusUnauthorized, "token_expired", "token expired")
				return
			}
			writeStatus(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), userID)))
	})
}

// rateLimit ограничивает запросы пользователя. Без авторизации
// ключом служит адрес клиента.
func rateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				key = "ip:" + clientIP(r)
			}
			if !rl.Allow(key) {
				log.WithField("key", key).Warn("Превышен лимит запросов")
				writeStatus(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// adminAuth проверяет пароль администратора из HTTP Basic.
// Логин не проверяется.
func (a *API) adminAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.Admin == nil || !a.Admin.Enabled() {
			writeStatus(w, http.StatusNotFound, "not_found", "admin access is disabled")
			return
		}
		_, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			writeStatus(w, http.StatusUnauthorized, "unauthenticated", "admin credentials required")
			return
		}

		switch err := a.Admin.Authenticate(clientIP(r), password); {
		case err == nil:
			next.ServeHTTP(w, r)
		case errors.Is(err, admin.ErrTooManyTries):
			writeStatus(w, http.StatusTooManyRequests, "too_many_attempts", "too many failed attempts, try later")
		case errors.Is(err, admin.ErrBadPassword):
			w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
			writeStatus(w, http.StatusUnauthorized, "unauthenticated", "invalid admin password")
		default:
			writeError(w, err)
		}
	})
}

// clientIP — адрес без порта. RealIP уже подставил X-Forwarded-For.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
