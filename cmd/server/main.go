package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mcoot/tourney/internal/api"
	"github.com/mcoot/tourney/internal/config"
	"github.com/mcoot/tourney/internal/factory"
)

// hubCleanupInterval is how often event stream hubs without clients are freed
const hubCleanupInterval = time.Minute

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "tourney-server",
		Short: "Tournament operation log server",
		Long: `tourney-server hosts tournament operation logs over a JSON API.

Configuration is read from an optional file and from TOURNEY_* environment
variables, e.g. TOURNEY_ADDR or TOURNEY_STORAGE_TYPE.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), configPath)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (yaml, json or toml)")
	return cmd
}

func newLogger(cfg config.Server, w io.Writer) *slog.Logger {
	// Validate has already checked the level
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func run(ctx context.Context, cfg config.Server, logOut io.Writer) error {
	logger := newLogger(cfg, logOut)
	slog.SetDefault(logger)

	app, err := factory.New(factory.Config{
		Logger:  logger,
		Storage: cfg.Storage,
	})
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close storage", slog.String("error", err.Error()))
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	restored, err := app.Manager.Restore(ctx)
	if err != nil {
		return fmt.Errorf("restore tournaments: %w", err)
	}
	logger.Info("tournaments restored",
		slog.Int("count", restored),
		slog.String("storage", cfg.Storage.Type),
	)

	router := api.NewRouter(api.RouterConfig{
		Logger:  logger,
		Manager: app.Manager,
		Hubs:    app.Hubs,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Addr = cfg.Addr
	server := api.NewServer(router, serverConfig, logger)
	server.OnShutdown(app.Hubs.Close)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Hubs.RunCleanup(ctx, hubCleanupInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
