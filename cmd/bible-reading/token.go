package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"serotonyl.ru/bible-reading/internal/auth"
	"serotonyl.ru/bible-reading/internal/config"
	"serotonyl.ru/bible-reading/internal/features/admin"
)

// newTokenCmd выпускает JWT для локальной проверки API.
func newTokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a JWT for a user id (local testing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errors.New("--user обязателен")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if ttl <= 0 {
				ttl = cfg.JWTTTL
			}
			token, err := auth.NewManager(cfg.JWTSecret).GenerateToken(userID, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (token subject)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (default JWT_TTL)")
	return cmd
}

// newHashPasswordCmd печатает Argon2id-хеш для ADMIN_PASSWORD_HASH.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print an Argon2id hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := admin.HashPassword(args[0], admin.DefaultParams)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
