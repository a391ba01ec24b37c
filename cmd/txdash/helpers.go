package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rholibobo/transaction-dashboard/internal/api"
	"github.com/rholibobo/transaction-dashboard/internal/config"
	"github.com/rholibobo/transaction-dashboard/internal/metrics"
	"github.com/rholibobo/transaction-dashboard/internal/query"
	"github.com/rholibobo/transaction-dashboard/internal/service"
	"github.com/rholibobo/transaction-dashboard/internal/storage"
	"github.com/spf13/viper"
)

// envKeyReplacer maps nested keys such as storage.backend onto
// TXDASH_STORAGE_BACKEND.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadConfig decodes the configuration gathered by initConfig.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStore opens the configured backend. When seeding is enabled an empty
// store starts with the sample dataset.
func initStore(ctx context.Context, cfg *config.Config) (service.TransactionStore, error) {
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStorage(cfg.Storage.Path)
		if err != nil {
			return nil, err
		}

		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		if cfg.Storage.Seed {
			if err := seedSQLite(ctx, store); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		return store, nil

	default:
		if cfg.Storage.Seed {
			return storage.NewSeededMemoryStore()
		}
		return storage.NewMemoryStore()
	}
}

func seedSQLite(ctx context.Context, store *storage.SQLiteStorage) error {
	seed, err := storage.SeedTransactions()
	if err != nil {
		return err
	}
	inserted, err := store.Seed(ctx, seed)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	if inserted > 0 {
		slog.Info("Seeded database with sample transactions", "count", inserted, "path", store.Path())
	}
	return nil
}

// newClient builds the API client over store. Interactive use simulates the
// configured latency; one-shot commands answer immediately.
func newClient(cfg *config.Config, store service.TransactionStore, m *metrics.Metrics, simulateLatency bool) (*api.Client, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []api.Option{
		api.WithEngine(query.Engine{PageSize: query.DefaultPageSize, Location: loc}),
		api.WithMetrics(m),
	}
	if simulateLatency {
		opts = append(opts,
			api.WithFetchLatency(cfg.API.FetchLatency),
			api.WithCreateLatency(cfg.API.CreateLatency))
	} else {
		opts = append(opts, api.WithFetchLatency(0), api.WithCreateLatency(0))
	}
	return api.New(store, opts...), nil
}
