package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ADITYAK333/satellite-tracker/internal/api"
	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
	"github.com/ADITYAK333/satellite-tracker/internal/config"
	"github.com/ADITYAK333/satellite-tracker/internal/propagation"
	"github.com/ADITYAK333/satellite-tracker/internal/property/store"
	"github.com/ADITYAK333/satellite-tracker/internal/tle"
	"github.com/ADITYAK333/satellite-tracker/internal/tracker"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(config.New(), logger)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.LogLevel)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	props, err := store.Open(ctx, cfg.PropertyDriver, cfg.PropertyDSN, logger)
	if err != nil {
		logger.Error("property store unavailable", "driver", cfg.PropertyDriver, "error", err)
		os.Exit(1)
	}
	defer func() { _ = props.Close() }()

	prop := propagation.NewPropagator(cfg.Propagation(), logger)
	t := tracker.New(cfg.Tracker(),
		tle.NewFetcher(cfg.TLE(), logger),
		bodies.NewFetcher(cfg.Bodies(), logger),
		prop, nil, logger)

	srv := api.NewServer(api.Config{Addr: cfg.HTTPAddr, TrustProxy: cfg.TrustProxy}, t, props, logger)

	// Evict expired cache entries in the background.
	go t.Start(ctx, cfg.EvictInterval)

	// Warm the record cache so /readyz turns green without waiting for a request.
	go func() {
		start := time.Now()
		frame, err := t.Refresh(ctx)
		if err != nil {
			logger.Warn("warm-up refresh failed", "error", err)
			return
		}
		logger.Info("warm-up refresh complete",
			"satellites", len(frame.Records),
			"failed_categories", len(frame.Report.FailedCategories()),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	go func() {
		logger.Info("starting server",
			"addr", cfg.HTTPAddr,
			"property_driver", props.Driver,
			"trust_proxy", cfg.TrustProxy,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
