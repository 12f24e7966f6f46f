// Package app wires a store and the engine services together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sportcenter/internal/activities"
	"sportcenter/internal/config"
	"sportcenter/internal/membership"
	"sportcenter/internal/metrics"
	"sportcenter/internal/reservations"
	"sportcenter/internal/stats"
	"sportcenter/internal/store"
	"sportcenter/internal/store/faulty"
	"sportcenter/internal/store/memory"
	"sportcenter/internal/store/sqlstore"
)

// OpenStore opens the store selected by cfg.StoreDriver, wrapped with
// fault injection when cfg asks for it.
func OpenStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var st store.Store
	switch cfg.StoreDriver {
	case "memory":
		st = memory.New()
	case sqlstore.DriverSQLite, sqlstore.DriverPostgres:
		sqlStore, err := sqlstore.Open(ctx, cfg.StoreDriver, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
		}
		st = sqlStore
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.StoreFaultRate > 0 || cfg.StoreFaultLatency > 0 {
		st = faulty.Wrap(st, faulty.Config{
			BlastRadius: cfg.StoreFaultRate,
			Latency:     time.Duration(cfg.StoreFaultLatency) * time.Millisecond,
			Seed:        uint64(time.Now().UnixNano()),
		})
	}
	return st, nil
}

// App holds the services built on one store.
type App struct {
	Store        store.Store
	Members      membership.Service
	Activities   activities.Service
	Reservations reservations.Service
	Stats        *stats.Aggregator
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
}

// New builds the services. reg may be nil to skip metrics; now may be nil
// to use the wall clock.
func New(st store.Store, logger *slog.Logger, reg prometheus.Registerer, now func() time.Time) *App {
	if logger == nil {
		logger = slog.Default()
	}
	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}
	return &App{
		Store:        st,
		Members:      membership.NewService(st, logger, m, now),
		Activities:   activities.NewService(st, logger, m, now),
		Reservations: reservations.NewService(st, logger, m, now),
		Stats:        stats.NewAggregator(st),
		Metrics:      m,
		Logger:       logger,
	}
}
