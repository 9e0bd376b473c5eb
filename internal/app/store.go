package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teamdesk/platform/internal/guard"
	"github.com/teamdesk/platform/internal/infra"
	"github.com/teamdesk/platform/internal/projection"
	"github.com/teamdesk/platform/internal/repository"
)

// Backend is an opened record store with its projection store.
type Backend struct {
	Name        string
	Store       repository.TableStore
	Projections projection.Store
	Health      func(context.Context) error
	Close       func()
}

// OpenBackend opens the store selected by cfg.StoreBackend, wraps it in
// the circuit breaker and makes sure every table exists.
func OpenBackend(ctx context.Context, cfg *infra.Config, logger *slog.Logger) (*Backend, error) {
	b := &Backend{
		Name:        cfg.StoreBackend,
		Projections: projection.NewInMemoryStore(),
		Health:      func(context.Context) error { return nil },
		Close:       func() {},
	}
	var inner repository.TableStore

	switch cfg.StoreBackend {
	case infra.BackendMemory:
		inner = repository.NewMemoryStore()

	case infra.BackendSQLite:
		db, err := infra.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if inner, err = repository.NewSQLiteStore(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("create sqlite store: %w", err)
		}
		b.Health = db.PingContext
		b.Close = func() { db.Close() }
		logger.Info("connected to sqlite", "path", cfg.SQLitePath)

	case infra.BackendPostgres:
		if err := infra.RunMigrations(cfg.DSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		pool, err := infra.NewPostgresPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		inner = repository.NewPostgresStore(pool)
		b.Projections = projection.NewPostgresStore(pool)
		b.Health = func(ctx context.Context) error { return infra.HealthCheck(ctx, pool) }
		b.Close = pool.Close
		logger.Info("connected to postgres")

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	breaker := guard.NewCircuitBreaker(cfg.BreakerThreshold, cfg.BreakerReset)
	b.Store = repository.NewGuardedStore(inner, breaker, logger)
	if err := repository.EnsureSchema(ctx, b.Store); err != nil {
		b.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return b, nil
}
