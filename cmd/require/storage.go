package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rpggio/require/internal/badger"
	"github.com/rpggio/require/internal/config"
	"github.com/rpggio/require/internal/domain/project"
	"github.com/rpggio/require/internal/domain/workspace"
	"github.com/rpggio/require/internal/persist"
	"github.com/rpggio/require/internal/repository"
	"github.com/rpggio/require/internal/sqlite"
)

// openStorage opens the configured KV backend. The returned func releases it.
func openStorage(cfg config.StorageConfig, logger *slog.Logger) (repository.KVStore, func() error, error) {
	switch cfg.Backend {
	case "memory":
		return persist.NewMemoryStore(), func() error { return nil }, nil
	case "badger":
		store, err := badger.Open(badger.Config{Path: cfg.Path, SyncWrites: true, GCInterval: 5 * time.Minute, Logger: logger})
		if err != nil {
			return nil, nil, fmt.Errorf("open badger: %w", err)
		}
		return store, store.Close, nil
	case "sqlite":
		if err := ensureDir(cfg.Path); err != nil {
			return nil, nil, fmt.Errorf("prepare database path: %w", err)
		}
		db, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return sqlite.NewKVStore(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// openWorkspace wires storage, the project store and the persistence engine.
// reg may be nil.
func openWorkspace(ctx context.Context, cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) (*workspace.Service, func() error, error) {
	kv, closeStore, err := openStorage(cfg.Storage, logger)
	if err != nil {
		return nil, nil, err
	}
	var metrics *persist.Metrics
	if reg != nil {
		metrics = persist.NewMetrics(reg)
	}
	ws := workspace.NewService(ctx, kv,
		project.NewStore(project.WithLogger(logger)),
		persist.Config{Window: cfg.Storage.Debounce, Logger: logger, Metrics: metrics},
		logger)

	closeFn := func() error {
		wsErr := ws.Close()
		if err := closeStore(); err != nil {
			return err
		}
		return wsErr
	}
	return ws, closeFn, nil
}
