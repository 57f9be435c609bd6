// Package main — точка входа сервиса чтения Библии.
// Команды: serve (HTTP + фоновые задачи), token (JWT для отладки),
// hash-password (хеш для ADMIN_PASSWORD_HASH).
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const Version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bible-reading",
		Short:         "Bible reading streaks, points, spins and achievements",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCmd(),
		newTokenCmd(),
		newHashPasswordCmd(),
	)
	return root
}

func main() {
	setupLogging()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ошибка:", err)
		os.Exit(1)
	}
}

// setupLogging настраивает формат логов.
func setupLogging() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}

// applyLogLevel выставляет уровень из конфигурации.
func applyLogLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("Неизвестный уровень логов, оставляем debug")
		return
	}
	log.SetLevel(lvl)
}
