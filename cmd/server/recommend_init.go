// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviesim/internal/cache"
	"github.com/tomtom215/moviesim/internal/catalog"
	"github.com/tomtom215/moviesim/internal/config"
	"github.com/tomtom215/moviesim/internal/embedding"
	"github.com/tomtom215/moviesim/internal/logging"
	"github.com/tomtom215/moviesim/internal/recommend"
	"github.com/tomtom215/moviesim/internal/recommend/storage"
)

// RecommendComponents holds the engine and the resources it borrows.
type RecommendComponents struct {
	Engine *recommend.Engine

	closers []func()
}

// Close stops the engine first so a running training pass finishes with
// its catalog and store still open.
func (c *RecommendComponents) Close() {
	c.Engine.Close()
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// initRecommend wires catalog, embedder, artifact store, cache and engine.
// On error every resource opened so far is released.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initRecommend(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (_ *RecommendComponents, err error) {
	comps := &RecommendComponents{}
	defer func() {
		if err != nil {
			for i := len(comps.closers) - 1; i >= 0; i-- {
				comps.closers[i]()
			}
		}
	}()

	source, closeSource, err := initCatalog(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if closeSource != nil {
		comps.closers = append(comps.closers, closeSource)
	}

	embedder, err := embedding.New(buildEmbeddingConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}
	logger.Info().
		Str("provider", cfg.Embedding.Provider).
		Str("model", embedder.Model()).
		Int("dimension", embedder.Dimension()).
		Msg("Embedder ready")

	store, err := storage.NewStore(buildStorageConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("open artifact store: %w", err)
	}

	engine, err := recommend.NewEngine(buildEngineConfig(cfg), source, embedder, store, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}
	comps.Engine = engine

	if cfg.Cache.Enabled {
		c, err := cache.New(buildCacheConfig(cfg), logger)
		if err != nil {
			engine.Close()
			return nil, fmt.Errorf("open result cache: %w", err)
		}
		engine.SetCache(c)
		comps.closers = append(comps.closers, func() {
			if err := c.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing result cache")
			}
		})
		logger.Info().Str("backend", cfg.Cache.Backend).Dur("ttl", cfg.Cache.TTL).Msg("Result cache enabled")
	}

	return comps, nil
}

// initCatalog returns the configured training source and its closer, if any.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func initCatalog(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (recommend.Source, func(), error) {
	switch cfg.Catalog.Source {
	case "file":
		src, err := catalog.NewFileSource(cfg.Catalog.FilePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("path", cfg.Catalog.FilePath).Msg("Using file catalog")
		return src, nil, nil

	case "postgres", "":
		src, err := catalog.NewPostgresSource(ctx, catalog.PostgresConfig{
			URL:            cfg.Database.URL,
			MaxConns:       cfg.Database.MaxConns,
			ConnectTimeout: cfg.Database.ConnectTimeout,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect catalog database: %w", err)
		}
		logger.Info().Str("url", logging.RedactURL(cfg.Database.URL)).Msg("Connected to catalog database")
		return src, src.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown catalog source %q", cfg.Catalog.Source)
	}
}

// trainIfMissing trains synchronously when nothing has been committed yet.
// A failure is logged and swallowed; the service still starts and answers
// with empty lists until a later run succeeds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func trainIfMissing(ctx context.Context, engine *recommend.Engine, cfg *config.Config, logger zerolog.Logger) {
	if !cfg.Recommend.TrainOnStartupIfMissing {
		return
	}
	if engine.HasArtifacts() {
		logger.Info().Str("generation_id", engine.Status().GenerationID).Msg("Existing artifacts found, skipping startup training")
		return
	}

	logger.Info().Msg("No artifacts found, training before serving")
	if err := engine.Train(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn().Msg("Startup training canceled")
			return
		}
		logger.Error().Err(err).Msg("Startup training failed, serving without an index")
		return
	}
	st := engine.Status()
	logger.Info().Str("generation_id", st.GenerationID).Int("items", st.Items).Msg("Startup training complete")
}

func buildEngineConfig(cfg *config.Config) *recommend.Config {
	return &recommend.Config{
		DefaultK:     cfg.Recommend.DefaultK,
		MaxK:         cfg.Recommend.MaxK,
		QueryTimeout: cfg.Recommend.QueryTimeout,
		TrainTimeout: cfg.Recommend.TrainTimeout,
	}
}

func buildEmbeddingConfig(cfg *config.Config) embedding.Config {
	e := cfg.Embedding
	return embedding.Config{
		Provider:          e.Provider,
		BaseURL:           e.BaseURL,
		APIKey:            e.APIKey,
		Model:             e.Model,
		Dimension:         e.Dimension,
		BatchSize:         e.BatchSize,
		Timeout:           e.Timeout,
		RequestsPerSecond: e.RequestsPerSecond,
		MaxRetries:        e.MaxRetries,
		BreakerFailures:   e.BreakerFailures,
		BreakerTimeout:    e.BreakerTimeout,
	}
}

func buildStorageConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Dir:             cfg.Artifacts.Dir,
		IndexFile:       cfg.Artifacts.IndexFile,
		SidecarFile:     cfg.Artifacts.SidecarFile,
		KeepGenerations: cfg.Artifacts.KeepGenerations,
	}
}

func buildCacheConfig(cfg *config.Config) cache.Config {
	return cache.Config{
		Type:     cache.CacheType(cfg.Cache.Backend),
		TTL:      cfg.Cache.TTL,
		Capacity: cfg.Cache.MaxEntries,
		Path:     cfg.Cache.Path,
	}
}
