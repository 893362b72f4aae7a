// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tomtom215/moviesim/internal/api"
	"github.com/tomtom215/moviesim/internal/config"
	"github.com/tomtom215/moviesim/internal/logging"
	"github.com/tomtom215/moviesim/internal/metrics"
	"github.com/tomtom215/moviesim/internal/recommend"
	"github.com/tomtom215/moviesim/internal/supervisor"
	"github.com/tomtom215/moviesim/internal/supervisor/services"
)

// Version is set at build time with -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	metrics.AppInfo.With(prometheus.Labels{"version": Version, "go_version": runtime.Version()}).Set(1)

	logger.Info().
		Str("version", Version).
		Str("environment", cfg.Server.Environment).
		Str("catalog", cfg.Catalog.Source).
		Str("embedding", cfg.Embedding.Provider).
		Str("artifacts", cfg.Artifacts.Dir).
		Msg("Starting moviesim")

	if cfg.ShouldWarnAboutCORS() {
		logger.Warn().Msg("CORS allows any origin in production; set CORS_ORIGINS")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	comps, err := initRecommend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer comps.Close()

	trainIfMissing(ctx, comps.Engine, cfg, logger)
	if ctx.Err() != nil {
		return nil
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(api.NewHandler(comps.Engine), mw),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree.AddAPIService(services.NewHTTPServerService(server, server.Addr, cfg.Server.ShutdownTimeout, logger))
	tree.AddDataService(services.NewTrainService(comps.Engine, cfg.Recommend.TrainInterval, isTrainingBusy, logger))

	err = tree.Serve(ctx)
	logger.Info().Msg("Supervisor tree stopped")

	if report, rerr := tree.UnstoppedServiceReport(); rerr == nil && len(report) > 0 {
		logger.Warn().Int("count", len(report)).Msg("Services did not stop within the shutdown timeout")
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func isTrainingBusy(err error) bool {
	return errors.Is(err, recommend.ErrTrainingInProgress)
}
