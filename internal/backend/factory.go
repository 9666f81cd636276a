// Package backend assembles the engine's collaborators from configuration:
// the cache store, the remote transaction store, and the receipt scanner.
// Missing credentials degrade capabilities instead of failing startup, so
// the app always comes up with at least local state.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jamtero2001/FINANCE-APP/internal/cache"
	"github.com/jamtero2001/FINANCE-APP/internal/config"
	"github.com/jamtero2001/FINANCE-APP/internal/remote"
	"github.com/jamtero2001/FINANCE-APP/internal/remote/memory"
	"github.com/jamtero2001/FINANCE-APP/internal/remote/postgres"
	"github.com/jamtero2001/FINANCE-APP/internal/remote/postgrest"
	"github.com/jamtero2001/FINANCE-APP/internal/remote/sheets"
	"github.com/jamtero2001/FINANCE-APP/internal/scanner"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// Result contains the assembled collaborators and an optional cleanup
// function to run at shutdown.
type Result struct {
	Cache   cache.Store
	Remote  remote.Store
	Scanner scanner.Scanner
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{logger: logger}
}

// Create assembles all collaborators from the given config.
func (f *Factory) Create(ctx context.Context, cfg *config.Config) (*Result, error) {
	result := &Result{}

	store, cleanup, err := f.createCache(cfg)
	if err != nil {
		return nil, err
	}
	result.Cache = store
	result.Cleanup = cleanup

	remoteStore, err := f.createRemote(ctx, cfg)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, err
	}
	result.Remote = remoteStore

	result.Scanner = f.createScanner(cfg)

	return result, nil
}

func (f *Factory) createCache(cfg *config.Config) (cache.Store, CleanupFunc, error) {
	switch cfg.CacheBackend {
	case "sqlite":
		store, err := cache.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize SQLite cache: %w", err)
		}
		f.logger.Info("Initialized SQLite cache", "db_path", cfg.SQLiteDBPath)
		return store, store.Close, nil
	case "file":
		store, err := cache.NewFileStore(cfg.CacheDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize file cache: %w", err)
		}
		f.logger.Info("Initialized file cache", "dir", cfg.CacheDir)
		return store, nil, nil
	case "memory":
		f.logger.Info("Initialized in-memory cache")
		return cache.NewMemoryStore(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache backend: %s", cfg.CacheBackend)
	}
}

func (f *Factory) createRemote(ctx context.Context, cfg *config.Config) (remote.Store, error) {
	switch cfg.RemoteBackend {
	case "rest":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			f.logger.Warn("Supabase credentials missing, running local-only")
			return remote.Unconfigured{}, nil
		}
		client, err := postgrest.New(postgrest.Config{
			BaseURL: cfg.SupabaseURL,
			APIKey:  cfg.SupabaseKey,
			Table:   cfg.SupabaseTable,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgREST client: %w", err)
		}
		f.logger.Info("Initialized PostgREST remote store", "table", cfg.SupabaseTable)
		return client, nil
	case "postgres":
		store, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		f.logger.Info("Initialized Postgres remote store")
		return store, nil
	case "sheets":
		client, err := sheets.NewFromEnv(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets remote store")
		return client, nil
	case "memory":
		f.logger.Info("Initialized in-memory remote store")
		return memory.New(), nil
	case "none":
		f.logger.Info("Remote store disabled, running local-only")
		return remote.Unconfigured{}, nil
	default:
		return nil, fmt.Errorf("unsupported remote backend: %s", cfg.RemoteBackend)
	}
}

func (f *Factory) createScanner(cfg *config.Config) scanner.Scanner {
	if cfg.OCREndpoint == "" {
		f.logger.Info("No OCR endpoint configured, receipt scanning disabled")
		return scanner.Unavailable{}
	}
	svc, err := scanner.NewHTTPService(scanner.HTTPConfig{Endpoint: cfg.OCREndpoint})
	if err != nil {
		f.logger.Warn("Failed to initialize OCR service, receipt scanning disabled", "error", err)
		return scanner.Unavailable{}
	}
	f.logger.Info("Initialized OCR service", "endpoint", cfg.OCREndpoint)
	return svc
}
