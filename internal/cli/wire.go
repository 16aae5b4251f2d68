package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
	"github.com/ADITYAK333/satellite-tracker/internal/cache"
	"github.com/ADITYAK333/satellite-tracker/internal/config"
	"github.com/ADITYAK333/satellite-tracker/internal/propagation"
	"github.com/ADITYAK333/satellite-tracker/internal/property/store"
	"github.com/ADITYAK333/satellite-tracker/internal/tle"
	"github.com/ADITYAK333/satellite-tracker/internal/tracker"
)

type app struct {
	cfg     config.Config
	logger  *slog.Logger
	tracker *tracker.Tracker
}

func wireApp(v *viper.Viper, clock cache.Clock, stderr io.Writer, verbose bool) (*app, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(v, logger)
	if err != nil {
		return nil, fmt.Errorf("wire config: %w", err)
	}

	prop := propagation.NewPropagator(cfg.Propagation(), logger)
	t := tracker.New(cfg.Tracker(),
		tle.NewFetcher(cfg.TLE(), logger),
		bodies.NewFetcher(cfg.Bodies(), logger),
		prop, clock, logger)

	return &app{cfg: cfg, logger: logger, tracker: t}, nil
}

// openProperties opens the configured property store. Callers close it.
func (a *app) openProperties(ctx context.Context) (*store.Backend, error) {
	b, err := store.Open(ctx, a.cfg.PropertyDriver, a.cfg.PropertyDSN, a.logger)
	if err != nil {
		return nil, fmt.Errorf("open property store: %w", err)
	}
	return b, nil
}
