// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package recommend

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviesim/internal/embedding"
	"github.com/tomtom215/moviesim/internal/recommend/storage"
)

// GenerationStore persists and loads generations. *storage.Store implements it.
type GenerationStore interface {
	Load(ctx context.Context) (*storage.Generation, error)
	Commit(ctx context.Context, g *storage.Generation) error
	Exists() bool
}

// Engine owns the serving generation and runs training. It is safe for
// concurrent use: lookups read an atomically swapped generation pointer and
// never block on training.
type Engine struct {
	config *Config
	logger zerolog.Logger

	source   Source
	embedder embedding.Embedder
	store    GenerationStore
	cache    ResultCache

	// current is nil until a generation has been loaded or trained.
	current atomic.Pointer[storage.Generation]

	// loadMu serializes lazy loads so concurrent first queries read once.
	loadMu sync.Mutex

	// trainMu is held for the duration of a training run.
	trainMu sync.Mutex

	// statusMu guards status. It is never held across a pipeline stage.
	statusMu sync.RWMutex
	status   Status

	// Background runs started by TrainAsync.
	bgCtx    context.Context
	bgCancel context.CancelFunc
	bgWG     sync.WaitGroup
}

// NewEngine creates an engine. cfg may be nil for defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source Source, embedder embedding.Embedder, store GenerationStore, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("source is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	if store == nil {
		return nil, fmt.Errorf("generation store is required")
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())

	return &Engine{
		config:   cfg,
		logger:   logger.With().Str("component", "recommend").Logger(),
		source:   source,
		embedder: embedder,
		store:    store,
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}, nil
}

// SetCache installs a result cache. Must be called before serving traffic.
func (e *Engine) SetCache(c ResultCache) {
	e.cache = c
}

// HasArtifacts reports whether a persisted generation exists.
func (e *Engine) HasArtifacts() bool {
	return e.current.Load() != nil || e.store.Exists()
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	e.statusMu.RLock()
	st := e.status
	e.statusMu.RUnlock()

	if g := e.current.Load(); g != nil {
		st.GenerationID = g.ID()
		st.Items = g.Len()
		st.Model = g.Sidecar.Model
		st.LastTrainedAt = g.Sidecar.TrainedAt
	}
	return st
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Close cancels background training and waits for it to stop.
func (e *Engine) Close() {
	e.bgCancel()
	e.bgWG.Wait()
}

// generation returns the serving generation, loading it from the store on first use.
func (e *Engine) generation(ctx context.Context) (*storage.Generation, error) {
	if g := e.current.Load(); g != nil {
		return g, nil
	}

	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	if g := e.current.Load(); g != nil {
		return g, nil
	}

	g, err := e.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	// A training run may have swapped in a newer generation while we read.
	if e.current.CompareAndSwap(nil, g) {
		e.logger.Info().
			Str("generation_id", g.ID()).
			Int("items", g.Len()).
			Msg("loaded serving generation")
		return g, nil
	}
	return e.current.Load(), nil
}

// swap installs g as the serving generation and invalidates cached results.
func (e *Engine) swap(g *storage.Generation) {
	e.current.Store(g)
	if e.cache != nil {
		e.cache.Purge()
	}
}
