// Package app wires configuration, the selected cache backend and the
// services shared by the HTTP server and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/ohada_reporting_app/internal/adapters/cache/file"
	"github.com/SscSPs/ohada_reporting_app/internal/adapters/cache/memory"
	rediscache "github.com/SscSPs/ohada_reporting_app/internal/adapters/cache/redis"
	"github.com/SscSPs/ohada_reporting_app/internal/adapters/filesource"
	"github.com/SscSPs/ohada_reporting_app/internal/adapters/render"
	portsrepo "github.com/SscSPs/ohada_reporting_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ohada_reporting_app/internal/core/ports/services"
	"github.com/SscSPs/ohada_reporting_app/internal/core/services"
	"github.com/SscSPs/ohada_reporting_app/internal/platform/config"
	"github.com/SscSPs/ohada_reporting_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/ohada_reporting_app/pkg/database"
	goredis "github.com/redis/go-redis/v9"
)

// App holds the wired services and the connections they depend on.
type App struct {
	Config   *config.Config
	Services *portssvc.ServiceContainer
	// Redis is set when the redis backend is selected, so the rate limiter can share it.
	Redis *goredis.Client

	closers []func()
}

// New builds the service container for cfg, connecting to Redis or Postgres
// when the cache backend requires it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg}

	layouts, err := config.LoadLayoutProfiles(cfg.LayoutFile)
	if err != nil {
		return nil, err
	}
	logger.Info("Layout profiles loaded", slog.Int("count", len(layouts)))

	source := filesource.NewSourceRepository(cfg.SourcePaths())
	repos, err := a.repositories(ctx, cfg, source, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Services = services.NewServiceContainer(cfg, repos, render.NewExcelRenderer(), layouts)
	return a, nil
}

func (a *App) repositories(ctx context.Context, cfg *config.Config, source portsrepo.SourceRepository, logger *slog.Logger) (portsrepo.RepositoryProvider, error) {
	logger = logger.With(slog.String("cache_backend", cfg.CacheBackend))

	switch cfg.CacheBackend {
	case config.CacheBackendMemory:
		logger.Info("Using in-memory report cache")
		return portsrepo.RepositoryProvider{Source: source, CacheEntry: memory.NewCacheEntryRepository()}, nil

	case config.CacheBackendRedis:
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize redis cache backend: %w", err)
		}
		a.Redis = client
		a.closers = append(a.closers, func() { database.CloseRedisClient(client) })
		logger.Info("Using redis report cache", slog.String("hash_key", cfg.RedisKeyPrefix))
		return portsrepo.RepositoryProvider{Source: source, CacheEntry: rediscache.NewCacheEntryRepository(client, cfg.RedisKeyPrefix)}, nil

	case config.CacheBackendPostgres:
		applied, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath)
		if err != nil {
			return portsrepo.RepositoryProvider{}, err
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return portsrepo.RepositoryProvider{}, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(pool) })
		logger.Info("Database connection pool established.")
		return pgsql.NewRepositoryProvider(pool, source), nil
	}

	logger.Info("Using file report cache", slog.String("metadata", cfg.CacheMetadataPath()))
	return portsrepo.RepositoryProvider{Source: source, CacheEntry: file.NewCacheEntryRepository(cfg.CacheMetadataPath())}, nil
}

// Close releases the backend connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// NewLogger returns a JSON slog logger writing to w at the named level, info when unknown.
func NewLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: l}))
}
