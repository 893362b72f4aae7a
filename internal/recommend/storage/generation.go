// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package storage

import (
	"fmt"
	"time"

	"github.com/tomtom215/moviesim/internal/recommend/index"
)

// Entry is one row of the identity sidecar.
type Entry struct {
	// ID is the movie identifier as text.
	ID string `json:"id"`

	// Title is the movie title at training time.
	Title string `json:"title"`
}

// Sidecar is the ordered identity list persisted next to an index.
// Items[i] describes the vector at index position i.
type Sidecar struct {
	// GenerationID must equal the index header's generation ID.
	GenerationID string `json:"generation_id"`

	// Model names the embedding model that produced the vectors.
	Model string `json:"model"`

	// Dimension is the vector dimension.
	Dimension int `json:"dimension"`

	// TrainedAt is when the training run finished embedding.
	TrainedAt time.Time `json:"trained_at"`

	// Items is the position-aligned identity list.
	Items []Entry `json:"items"`
}

// Generation is a loaded (index, sidecar) pair.
// It is immutable once constructed and safe for concurrent use.
type Generation struct {
	Index   *index.Flat
	Sidecar Sidecar

	positions map[string]int
}

// NewGeneration pairs an index with its sidecar, checking alignment.
func NewGeneration(idx *index.Flat, sc Sidecar) (*Generation, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: nil index", ErrGenerationMismatch)
	}
	if idx.Len() != len(sc.Items) {
		return nil, fmt.Errorf("%w: index has %d vectors, sidecar has %d items",
			ErrGenerationMismatch, idx.Len(), len(sc.Items))
	}
	if sc.Dimension != 0 && sc.Dimension != idx.Dim() {
		return nil, fmt.Errorf("%w: index dimension %d, sidecar dimension %d",
			ErrGenerationMismatch, idx.Dim(), sc.Dimension)
	}

	positions := make(map[string]int, len(sc.Items))
	for i, e := range sc.Items {
		// First occurrence wins.
		if _, ok := positions[e.ID]; !ok {
			positions[e.ID] = i
		}
	}

	return &Generation{
		Index:     idx,
		Sidecar:   sc,
		positions: positions,
	}, nil
}

// ID returns the generation ID.
func (g *Generation) ID() string {
	return g.Sidecar.GenerationID
}

// Len returns the number of items in the generation.
func (g *Generation) Len() int {
	return len(g.Sidecar.Items)
}

// Position resolves a movie ID to its index position by exact match.
func (g *Generation) Position(id string) (int, bool) {
	pos, ok := g.positions[id]
	return pos, ok
}

// Entry returns the sidecar row at pos.
func (g *Generation) Entry(pos int) (Entry, bool) {
	if pos < 0 || pos >= len(g.Sidecar.Items) {
		return Entry{}, false
	}
	return g.Sidecar.Items[pos], true
}
