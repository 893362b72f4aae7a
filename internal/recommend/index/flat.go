// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package index

import "fmt"

// Match is a single search hit.
type Match struct {
	// Position is the zero-based offset of the stored vector.
	Position int `json:"position"`

	// Score is the inner product between the query and the stored vector.
	Score float32 `json:"score"`
}

// Flat is an exact inner-product index.
type Flat struct {
	dim  int
	data []float32
}

// New creates an empty index for vectors of the given dimension.
func New(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("index: dimension must be positive, got %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Build constructs an index over exactly the given vectors, in order.
// All vectors must share the dimension of the first one.
func Build(vectors [][]float32) (*Flat, error) {
	if len(vectors) == 0 {
		return nil, ErrEmpty
	}

	f, err := New(len(vectors[0]))
	if err != nil {
		return nil, err
	}
	f.data = make([]float32, 0, len(vectors)*f.dim)

	for i, v := range vectors {
		if err := f.Add(v); err != nil {
			return nil, fmt.Errorf("add vector %d: %w", i, err)
		}
	}

	return f, nil
}

// Add appends v at position Len().
func (f *Flat) Add(v []float32) error {
	if len(v) != f.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), f.dim)
	}
	f.data = append(f.data, v...)
	return nil
}

// Len returns the number of stored vectors.
func (f *Flat) Len() int {
	if f.dim == 0 {
		return 0
	}
	return len(f.data) / f.dim
}

// Dim returns the vector dimension.
func (f *Flat) Dim() int {
	return f.dim
}

// Reconstruct returns a copy of the vector stored at pos.
func (f *Flat) Reconstruct(pos int) ([]float32, error) {
	if pos < 0 || pos >= f.Len() {
		return nil, &OutOfRangeError{Position: pos, Size: f.Len()}
	}

	out := make([]float32, f.dim)
	copy(out, f.row(pos))
	return out, nil
}

// Search returns up to k stored vectors with the highest inner product
// against query. Results never contain sentinel entries: when k exceeds
// Len, every stored vector is returned.
func (f *Flat) Search(query []float32, k int) ([]Match, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(query), f.dim)
	}

	n := f.Len()
	if k <= 0 || n == 0 {
		return []Match{}, nil
	}
	if k > n {
		k = n
	}

	top := newTopK(k)
	for pos := 0; pos < n; pos++ {
		top.offer(Match{Position: pos, Score: dot(query, f.row(pos))})
	}

	return top.sorted(), nil
}

// row returns the backing slice for pos without copying.
func (f *Flat) row(pos int) []float32 {
	start := pos * f.dim
	return f.data[start : start+f.dim]
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
