// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package recommend

import (
	"context"
	"strconv"
	"time"

	"github.com/tomtom215/moviesim/internal/metrics"
)

// Recommend returns up to k movie IDs most similar to movieID, best first.
// k <= 0 selects the configured default. Every failure yields an empty,
// non-nil list; use RecommendResult to see why.
func (e *Engine) Recommend(ctx context.Context, movieID string, k int) []string {
	return e.RecommendResult(ctx, movieID, k).IDs
}

// RecommendResult is Recommend with the failure kind exposed.
func (e *Engine) RecommendResult(ctx context.Context, movieID string, k int) Result {
	start := time.Now()
	k = e.config.clampK(k)

	ctx, cancel := context.WithTimeout(ctx, e.config.QueryTimeout)
	defer cancel()

	res := e.lookup(ctx, movieID, k)
	metrics.RecordRecommendation(res.Kind.String(), time.Since(start))

	if res.Err != nil {
		e.logFailure(res, movieID, k)
	}
	return res
}

func (e *Engine) lookup(ctx context.Context, movieID string, k int) Result {
	g, err := e.generation(ctx)
	if err != nil {
		return failed(err)
	}

	key := cacheKey(g.ID(), movieID, k)
	if e.cache != nil {
		if ids, ok := e.cache.Get(key); ok {
			return Result{IDs: ids}
		}
	}

	pos, ok := g.Position(movieID)
	if !ok {
		return failed(&ItemNotFoundError{ID: movieID})
	}

	query, err := g.Index.Reconstruct(pos)
	if err != nil {
		return failed(err)
	}

	searchStart := time.Now()
	// One extra to make room for the query movie matching itself.
	matches, err := g.Index.Search(query, k+1)
	metrics.RecordIndexSearch(time.Since(searchStart))
	if err != nil {
		return failed(err)
	}

	ids := make([]string, 0, k)
	for _, m := range matches {
		if m.Position == pos || m.Position < 0 {
			continue
		}
		entry, ok := g.Entry(m.Position)
		if !ok {
			continue
		}
		ids = append(ids, entry.ID)
		if len(ids) == k {
			break
		}
	}

	if e.cache != nil && len(ids) > 0 {
		e.cache.Set(key, ids)
	}
	return Result{IDs: ids}
}

func (e *Engine) logFailure(res Result, movieID string, k int) {
	event := e.logger.Warn()
	switch res.Kind {
	case KindArtifactsMissing, KindItemNotFound:
	default:
		event = e.logger.Error()
	}
	event.
		Err(res.Err).
		Str("kind", res.Kind.String()).
		Str("movie_id", movieID).
		Int("k", k).
		Msg("recommendation lookup failed, returning empty list")
}

func failed(err error) Result {
	return Result{IDs: []string{}, Kind: KindOf(err), Err: err}
}

// cacheKey scopes cached results to a generation so a retrain never serves
// neighbors computed against an older index.
func cacheKey(generationID, movieID string, k int) string {
	return generationID + "/" + strconv.Itoa(k) + "/" + movieID
}
