// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/moviesim/internal/metrics"
	"github.com/tomtom215/moviesim/internal/recommend/index"
	"github.com/tomtom215/moviesim/internal/recommend/storage"
)

// Train runs the full pipeline and commits a new serving generation:
// fetch, synthesize, embed, normalize, build, persist.
//
// Returns ErrTrainingInProgress immediately if another run holds the lock.
// On any error the previously serving generation stays in place.
func (e *Engine) Train(ctx context.Context) error {
	if !e.trainMu.TryLock() {
		metrics.RecordTraining(KindBusy.String(), 0, 0)
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	return e.train(ctx)
}

// TrainAsync starts a training run in the background and returns at once.
// The run is bound to the engine lifetime, not to ctx of the caller.
func (e *Engine) TrainAsync() error {
	if !e.trainMu.TryLock() {
		metrics.RecordTraining(KindBusy.String(), 0, 0)
		return ErrTrainingInProgress
	}

	e.bgWG.Add(1)
	go func() {
		defer e.bgWG.Done()
		defer e.trainMu.Unlock()

		if err := e.train(e.bgCtx); err != nil {
			e.logger.Error().Err(err).Msg("background training failed")
		}
	}()
	return nil
}

// train runs the pipeline. The caller holds trainMu.
func (e *Engine) train(ctx context.Context) (err error) {
	start := time.Now()
	e.setTraining(true)

	var items int
	defer func() {
		e.finishRun(start, err)
		outcome := "success"
		if err != nil {
			outcome = KindOf(err).String()
		}
		metrics.RecordTraining(outcome, time.Since(start), items)
	}()

	ctx, cancel := context.WithTimeout(ctx, e.config.TrainTimeout)
	defer cancel()

	e.logger.Info().Str("model", e.embedder.Model()).Msg("starting training run")

	g, err := e.buildGeneration(ctx)
	if err != nil {
		return err
	}
	items = g.Len()

	stage := time.Now()
	if err := e.store.Commit(ctx, g); err != nil {
		return fmt.Errorf("commit generation: %w", err)
	}
	metrics.RecordTrainingStage("commit", time.Since(stage))

	e.swap(g)

	e.logger.Info().
		Str("generation_id", g.ID()).
		Int("items", g.Len()).
		Int("dimension", g.Index.Dim()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("training run complete")

	return nil
}

// buildGeneration produces an uncommitted generation from the current catalog.
func (e *Engine) buildGeneration(ctx context.Context) (*storage.Generation, error) {
	stage := time.Now()
	items, err := e.source.Items(ctx)
	if err != nil {
		return nil, &UpstreamFetchError{Err: err}
	}
	if len(items) == 0 {
		return nil, &UpstreamFetchError{Err: errNoItems}
	}
	metrics.RecordTrainingStage("fetch", time.Since(stage))

	e.logger.Info().Int("items", len(items)).Msg("fetched catalog")

	stage = time.Now()
	vectors, err := e.embedder.Embed(ctx, SynthesizeAll(items))
	if err != nil {
		return nil, &EmbeddingError{Reason: "embed corpus", Err: err}
	}
	if err := checkVectors(vectors, len(items), e.embedder.Dimension()); err != nil {
		return nil, err
	}
	metrics.RecordTrainingStage("embed", time.Since(stage))

	stage = time.Now()
	idx, err := index.Build(index.NormalizeBatch(vectors))
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	metrics.RecordTrainingStage("build", time.Since(stage))

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate generation id: %w", err)
	}

	entries := make([]storage.Entry, len(items))
	for i, it := range items {
		entries[i] = storage.Entry{ID: it.ID, Title: it.Title}
	}

	return storage.NewGeneration(idx, storage.Sidecar{
		GenerationID: id.String(),
		Model:        e.embedder.Model(),
		Dimension:    idx.Dim(),
		TrainedAt:    time.Now().UTC(),
		Items:        entries,
	})
}

// checkVectors enforces one vector per item and a single non-zero dimension.
func checkVectors(vectors [][]float32, want, dim int) error {
	if len(vectors) != want {
		return &EmbeddingError{Reason: fmt.Sprintf("got %d vectors for %d texts", len(vectors), want)}
	}
	if dim <= 0 && len(vectors) > 0 {
		dim = len(vectors[0])
	}
	if dim <= 0 {
		return &EmbeddingError{Reason: "embedder returned empty vectors"}
	}
	for i, v := range vectors {
		if len(v) != dim {
			return &EmbeddingError{Reason: fmt.Sprintf("vector %d has dimension %d, want %d", i, len(v), dim)}
		}
	}
	return nil
}

func (e *Engine) setTraining(on bool) {
	e.statusMu.Lock()
	e.status.Training = on
	e.statusMu.Unlock()
}

func (e *Engine) finishRun(start time.Time, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.Training = false
	e.status.Runs++
	e.status.LastRunDurationMS = time.Since(start).Milliseconds()
	e.status.LastError = ""
	if err != nil {
		e.status.LastError = err.Error()
	}
}
