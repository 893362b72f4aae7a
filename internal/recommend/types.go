// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package recommend

import (
	"context"
	"time"
)

// Item is one movie as fetched from the catalog for a training run.
type Item struct {
	// ID is the stable movie identifier as text.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Overview is the free-text description. May be empty.
	Overview string `json:"overview"`

	// Genres is a deduplicated, space-joined genre list.
	Genres string `json:"genres"`

	// CastCrew is a deduplicated, space-joined list of cast and crew names.
	CastCrew string `json:"cast_crew"`
}

// Source fetches the training corpus. It is typically implemented by the
// catalog package.
type Source interface {
	// Items returns every active movie. The slice order becomes the index order.
	Items(ctx context.Context) ([]Item, error)
}

// ResultCache stores recommendation lists keyed by an opaque string.
// Implementations must be safe for concurrent use.
type ResultCache interface {
	Get(key string) ([]string, bool)
	Set(key string, ids []string)
	Purge()
}

// Status describes the serving generation and the most recent training run.
type Status struct {
	// Training is true while a run is in flight.
	Training bool `json:"training"`

	// GenerationID identifies the serving generation. Empty when none is loaded.
	GenerationID string `json:"generation_id,omitempty"`

	// Items is the number of movies in the serving generation.
	Items int `json:"items"`

	// Model is the embedding model of the serving generation.
	Model string `json:"model,omitempty"`

	// LastTrainedAt is when the serving generation was trained.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastRunDurationMS is the wall time of the last finished run.
	LastRunDurationMS int64 `json:"last_run_duration_ms"`

	// LastError is the error of the last finished run, empty on success.
	LastError string `json:"last_error,omitempty"`

	// Runs counts finished training runs since process start.
	Runs int `json:"runs"`
}
