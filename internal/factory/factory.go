package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/tourney/internal/api/sse"
	"github.com/mcoot/tourney/internal/config"
	"github.com/mcoot/tourney/internal/dependencies/clock"
	"github.com/mcoot/tourney/internal/dependencies/idgen"
	"github.com/mcoot/tourney/internal/services/manager"
	"github.com/mcoot/tourney/internal/storage"
	filestorage "github.com/mcoot/tourney/internal/storage/file"
	"github.com/mcoot/tourney/internal/storage/memory"
	redisstorage "github.com/mcoot/tourney/internal/storage/redis"
	"github.com/mcoot/tourney/internal/storage/sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock
	IDs   idgen.Generator

	// Services
	Manager *manager.Manager

	// Hubs carries committed operations to event stream clients
	Hubs *sse.HubManager

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Storage selects and configures the storage backend
	// If the type is empty, defaults to memory
	Storage config.StorageConfig
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, closer, err := newStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(store, clock.New(), idgen.New(), logger)
	if closer != nil {
		app.closers = append(app.closers, closer)
	}
	return app, nil
}

func newStorage(cfg config.StorageConfig) (storage.Storage, io.Closer, error) {
	switch cfg.Type {
	case "", config.StorageMemory:
		return memory.New(), nil, nil
	case config.StorageRedis:
		redisCfg := redisstorage.DefaultConfig()
		if cfg.RedisURL != "" {
			redisCfg.URL = cfg.RedisURL
		}
		redisCfg.LogTTL = cfg.RedisLogTTL
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return store, store, nil
	case config.StorageFile:
		store, err := filestorage.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("invalid storage type %q: must be memory, redis, file or sqlite", cfg.Type)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, ids idgen.Generator, logger *slog.Logger) *App {
	mgr := manager.New(store, clk, ids, logger)
	hubs := sse.NewHubManager(logger)
	mgr.Observe(sse.NewBroadcaster(hubs, logger))

	return &App{
		Storage: store,
		Clock:   clk,
		IDs:     ids,
		Manager: mgr,
		Hubs:    hubs,
	}
}

// Close disconnects stream clients and releases storage connections
func (a *App) Close() error {
	a.Hubs.Close()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
