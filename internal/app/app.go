// Package app инициализирует все компоненты приложения.
// app.go — точка сборки: хранилище, таблицы наград, движок, HTTP-сервер,
// уведомления и планировщик задач.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"serotonyl.ru/bible-reading/internal/auth"
	"serotonyl.ru/bible-reading/internal/common"
	"serotonyl.ru/bible-reading/internal/config"
	"serotonyl.ru/bible-reading/internal/db/postgres"
	"serotonyl.ru/bible-reading/internal/engine"
	"serotonyl.ru/bible-reading/internal/features/admin"
	"serotonyl.ru/bible-reading/internal/features/reminders"
	"serotonyl.ru/bible-reading/internal/features/rewards"
	api "serotonyl.ru/bible-reading/internal/http"
	"serotonyl.ru/bible-reading/internal/jobs"
	"serotonyl.ru/bible-reading/internal/notify"
	"serotonyl.ru/bible-reading/internal/store"
)

// ShutdownTimeout — сколько ждём завершения запросов при остановке.
const ShutdownTimeout = 10 * time.Second

// App содержит все компоненты приложения.
type App struct {
	Store     store.Store
	Engine    *engine.Engine
	Server    *http.Server
	Scheduler *jobs.Scheduler

	limiters []*api.RateLimiter
}

// New создаёт и связывает компоненты.
// Порядок важен: хранилище и таблицы нужны движку, движок — серверу и задачам.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := common.LoadLocation(cfg.AppTimezone)
	if err != nil {
		return nil, err
	}
	clock := common.SystemClock{Location: loc}

	// === 1. Хранилище ===
	st, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	// === 2. Таблицы наград ===
	tables, err := rewards.LoadTables(cfg.RewardsFile)
	if err != nil {
		st.Close()
		return nil, err
	}
	if cfg.RewardsFile != "" {
		log.WithField("file", cfg.RewardsFile).Info("Таблицы наград загружены из файла")
	}

	// === 3. Движок ===
	eng := engine.New(st, clock, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), tables, engine.Options{
		PointsPerChapter: cfg.PointsPerChapter,
		SpinsEnabled:     cfg.FeatureSpinsEnabled,
	})

	// === 4. HTTP ===
	limiter := api.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	adminLimiter := api.NewRateLimiter(admin.MaxAttempts*10, admin.AttemptWindow)
	router := (&api.API{
		Engine:       eng,
		Store:        st,
		Auth:         auth.NewManager(cfg.JWTSecret),
		Admin:        admin.NewService(cfg.AdminPasswordHash, clock),
		Origins:      cfg.HTTPCORSOrigins,
		Timeout:      cfg.HTTPRequestTimeout,
		Limiter:      limiter,
		AdminLimiter: adminLimiter,
	}).Router()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// === 5. Уведомления и задачи ===
	notifier, err := notify.New(cfg.TelegramBotToken)
	if err != nil {
		limiter.Close()
		adminLimiter.Close()
		st.Close()
		return nil, err
	}
	scheduler := jobs.NewScheduler(loc, eng, notifier, jobs.Options{
		RemindersEnabled: cfg.FeatureRemindersEnabled,
		Rule: reminders.Rule{
			Threshold: cfg.StreakReminderThreshold,
			HourFrom:  cfg.StreakReminderHourFrom,
		},
	})

	return &App{
		Store:     st,
		Engine:    eng,
		Server:    server,
		Scheduler: scheduler,
		limiters:  []*api.RateLimiter{limiter, adminLimiter},
	}, nil
}

// OpenStore открывает хранилище по STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	logger := log.WithField("driver", cfg.StoreDriver)

	switch cfg.StoreDriver {
	case config.DriverMemory:
		logger.Warn("Хранилище в памяти: данные пропадут при перезапуске")
		return store.NewMemory(), nil

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ошибка миграций: %w", err)
		}
		logger.Info("Подключено к PostgreSQL")
		return store.NewPostgres(pool), nil

	case config.DriverSQLite:
		s, err := store.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		logger.WithField("path", cfg.SQLitePath).Info("Открыт файл SQLite")
		return s, nil

	case config.DriverRedis:
		s, err := store.NewRedis(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
		})
		if err != nil {
			return nil, err
		}
		logger.WithField("addr", cfg.RedisAddr).Info("Подключено к Redis")
		return s, nil

	default:
		return nil, fmt.Errorf("неизвестный драйвер хранилища %q", cfg.StoreDriver)
	}
}

// Run запускает HTTP-сервер и планировщик и блокируется до отмены ctx
// или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("ошибка запуска HTTP на %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve — Run на готовом listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.Scheduler.Start(ctx); err != nil {
		ln.Close()
		return err
	}
	defer a.Scheduler.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.WithField("addr", ln.Addr().String()).Info("HTTP сервер запущен")
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ошибка HTTP сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("ошибка остановки HTTP сервера: %w", err)
		}
		log.Info("HTTP сервер остановлен")
		return nil
	})

	return g.Wait()
}

// Close освобождает ресурсы.
func (a *App) Close() {
	for _, rl := range a.limiters {
		rl.Close()
	}
	if err := a.Store.Close(); err != nil {
		log.WithError(err).Warn("Ошибка закрытия хранилища")
	}
}
