package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Options selects and configures a SectionStore.
type Options struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
	Logger      *zap.Logger
}

// Open connects the configured store. Postgres stores are migrated before use.
func Open(ctx context.Context, opts Options) (SectionStore, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch opts.Driver {
	case DriverPostgres:
		pool, err := Connect(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := ApplyMigrations(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		logger.Info("section store ready", zap.String("driver", DriverPostgres))
		return NewPGStore(pool), nil
	case DriverSQLite:
		path := opts.SQLitePath
		if path == "" {
			path = "proposal_vault.db"
		}
		store, err := NewSQLiteStore(path)
		if err != nil {
			return nil, err
		}
		logger.Info("section store ready", zap.String("driver", DriverSQLite), zap.String("path", path))
		return store, nil
	case DriverMemory:
		logger.Warn("using in-memory section store; data is lost on exit")
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
