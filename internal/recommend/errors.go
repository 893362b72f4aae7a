// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package recommend

import (
	"errors"
	"fmt"

	"github.com/tomtom215/moviesim/internal/recommend/index"
	"github.com/tomtom215/moviesim/internal/recommend/storage"
)

// ErrTrainingInProgress is returned when a training run is requested while
// another one is still running.
var ErrTrainingInProgress = errors.New("training already in progress")

// errNoItems is wrapped in an UpstreamFetchError when the catalog is empty.
var errNoItems = errors.New("catalog returned no items")

// ItemNotFoundError is returned when a movie ID is absent from the serving generation.
type ItemNotFoundError struct {
	ID string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("movie %q not found in index", e.ID)
}

// UpstreamFetchError wraps a failure to read the training corpus.
type UpstreamFetchError struct {
	Err error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch corpus: %v", e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// EmbeddingError is returned when the embedder fails or returns vectors of
// the wrong count or dimension.
type EmbeddingError struct {
	Reason string
	Err    error
}

func (e *EmbeddingError) Error() string {
	if e.Err == nil {
		return "embedding: " + e.Reason
	}
	return fmt.Sprintf("embedding: %s: %v", e.Reason, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// ErrorKind classifies failures for metrics, logs, and tests.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindArtifactsMissing
	KindItemNotFound
	KindOutOfRange
	KindUpstreamFetch
	KindEmbedding
	KindBusy
	KindInternal
)

// String returns the label used in metrics and logs.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindArtifactsMissing:
		return "artifacts_missing"
	case KindItemNotFound:
		return "item_not_found"
	case KindOutOfRange:
		return "out_of_range"
	case KindUpstreamFetch:
		return "upstream_fetch"
	case KindEmbedding:
		return "embedding"
	case KindBusy:
		return "busy"
	default:
		return "internal"
	}
}

// KindOf classifies err. A nil error is KindNone.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var (
		notFound   *ItemNotFoundError
		outOfRange *index.OutOfRangeError
		upstream   *UpstreamFetchError
		embedding  *EmbeddingError
	)

	switch {
	case errors.Is(err, storage.ErrArtifactsMissing):
		return KindArtifactsMissing
	case errors.As(err, &notFound):
		return KindItemNotFound
	case errors.As(err, &outOfRange):
		return KindOutOfRange
	case errors.As(err, &upstream):
		return KindUpstreamFetch
	case errors.As(err, &embedding):
		return KindEmbedding
	case errors.Is(err, ErrTrainingInProgress):
		return KindBusy
	default:
		return KindInternal
	}
}

// Result is the outcome of a recommendation lookup. IDs is never nil; on
// failure it is empty and Kind and Err describe why.
type Result struct {
	IDs  []string
	Kind ErrorKind
	Err  error
}

// OK reports whether the lookup succeeded.
func (r Result) OK() bool {
	return r.Kind == KindNone
}
