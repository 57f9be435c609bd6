package main

import (
	"fmt"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"serotonyl.ru/bible-reading/internal/app"
	"serotonyl.ru/bible-reading/internal/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			log.Info("=== Сервис запускается ===")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyLogLevel(cfg.AppLogLevel)

			// Отмена по Ctrl+C и docker stop
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, cfg)
			if err != nil {
				return fmt.Errorf("не удалось инициализировать приложение: %w", err)
			}
			defer application.Close()

			log.WithFields(log.Fields{
				"addr":   cfg.HTTPAddr,
				"store":  cfg.StoreDriver,
				"env":    cfg.AppEnv,
				"spins":  cfg.FeatureSpinsEnabled,
				"remind": cfg.FeatureRemindersEnabled,
			}).Info("=== Сервис готов к работе ===")

			if err := application.Run(ctx); err != nil {
				return err
			}
			log.Info("=== Сервис остановлен ===")
			return nil
		},
	}
}
