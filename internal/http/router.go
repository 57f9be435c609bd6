package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"serotonyl.ru/bible-reading/internal/auth"
	"serotonyl.ru/bible-reading/internal/engine"
	"serotonyl.ru/bible-reading/internal/features/admin"
	"serotonyl.ru/bible-reading/internal/store"
)

// API собирает зависимости HTTP-слоя.
type API struct {
	Engine  *engine.Engine
	Store   store.Store
	Auth    *auth.Manager
	Admin   *admin.Service
	Origins []string
	Timeout time.Duration

	// Limiter — лимит на пользователя для /api, AdminLimiter — на адрес для /admin
	Limiter      *RateLimiter
	AdminLimiter *RateLimiter
}

func (a *API) Router() http.Handler {
	timeout := a.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(recoverPanic)
	r.Use(middleware.Timeout(timeout))
	r.Use(a.corsMiddleware)

	r.Get("/health", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog", a.handleCatalog)

		r.Group(func(r chi.Router) {
			r.Use(a.authMiddleware)
			if a.Limiter != nil {
				r.Use(rateLimit(a.Limiter))
			}

			r.Post("/actions", a.handleActions)

			r.Get("/progress", a.action(engine.ActionGetProgress))
			r.Post("/progress/read", a.action(engine.ActionMarkAsRead))
			r.Get("/streak", a.action(engine.ActionGetStreak))
			r.Post("/streak/update", a.action(engine.ActionUpdateStreak))
			r.Get("/points", a.action(engine.ActionGetPoints))

			r.Route("/rewards", func(r chi.Router) {
				r.Get("/", a.action(engine.ActionGetRewards))
				r.Post("/spin", a.action(engine.ActionSpin))
				r.Post("/mystery-box", a.action(engine.ActionOpenMysteryBox))
			})
			r.Route("/achievements", func(r chi.Router) {
				r.Get("/", a.action(engine.ActionGetAchievements))
				r.Post("/check", a.action(engine.ActionCheckAchievements))
			})

			r.Get("/plan", a.action(engine.ActionGetPlan))
			r.Put("/plan", a.action(engine.ActionUpdatePlan))
			r.Put("/subscription", a.action(engine.ActionUpdateSubscription))
			r.Put("/notifications", a.action(engine.ActionUpdateNotifications))
		})
	})

	r.Route("/admin", func(r chi.Router) {
		if a.AdminLimiter != nil {
			r.Use(rateLimit(a.AdminLimiter))
		}
		r.Use(a.adminAuth)
		r.Delete("/users/{userID}/progress/{book}", a.handleRemoveBook)
	})

	return r
}
