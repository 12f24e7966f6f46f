// Package cli holds the cobra commands of the sportcenter binary.
package cli

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sportcenter/internal/app"
	"sportcenter/internal/config"
	"sportcenter/internal/logging"
)

// openApp loads the configuration and builds the services on the
// configured store. The caller closes a.Store.
func openApp(ctx context.Context, reg prometheus.Registerer) (*app.App, *config.Config, error) {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	slog.SetDefault(logger)

	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return app.New(st, logger, reg, time.Now), cfg, nil
}

func closeStore(a *app.App) {
	if err := a.Store.Close(); err != nil {
		a.Logger.Error("failed to close store", "error", err)
	}
}
