package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"splitmate/internal/auth"
	"splitmate/internal/config"
	"splitmate/internal/ledger"
	"splitmate/internal/server"
	"splitmate/internal/storage/sqlite"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the splitmate server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "Path to the YAML config file")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	hub := ledger.NewHub()

	// With Redis configured, change announcements reach subscribers on
	// every server instance; without it they stay in-process.
	var pub ledger.Publisher
	if cfg.Redis.Addr != "" {
		bridge, err := ledger.NewRedisBridge(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, hub)
		if err != nil {
			return fmt.Errorf("failed to connect redis bridge: %w", err)
		}
		defer bridge.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go bridge.Run(ctx)
		pub = bridge
		slog.Info("Redis bridge enabled", "addr", cfg.Redis.Addr)
	}

	l := ledger.New(store, hub, pub)
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpireHours)*time.Hour)

	return server.New(l, authenticator, jwtManager).Run(cfg.Server.Port)
}
