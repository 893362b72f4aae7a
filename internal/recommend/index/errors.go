// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package index

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when building an index from no vectors.
	ErrEmpty = errors.New("index: no vectors")

	// ErrDimensionMismatch is returned when a vector does not match the index dimension.
	ErrDimensionMismatch = errors.New("index: dimension mismatch")

	// ErrCorrupt is returned when a persisted index fails validation.
	ErrCorrupt = errors.New("index: corrupt artifact")
)

// OutOfRangeError reports an access to a position outside the index.
type OutOfRangeError struct {
	Position int
	Size     int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("index: position %d out of range [0, %d)", e.Position, e.Size)
}
