// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package index

import (
	"errors"
	"testing"
)

func testVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.6, 0.8, 0},
		{1, 0, 0},
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		vectors [][]float32
		wantErr error
		wantLen int
	}{
		{name: "builds in order", vectors: testVectors(), wantLen: 4},
		{name: "empty input", vectors: nil, wantErr: ErrEmpty},
		{name: "ragged input", vectors: [][]float32{{1, 0}, {1, 0, 0}}, wantErr: ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			idx, err := Build(tt.vectors)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if idx.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", idx.Len(), tt.wantLen)
			}
		})
	}
}

func TestNew_InvalidDimension(t *testing.T) {
	t.Parallel()

	if _, err := New(0); err == nil {
		t.Error("New(0) should fail")
	}
}

func TestReconstruct(t *testing.T) {
	t.Parallel()

	vectors := testVectors()
	idx, err := Build(vectors)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for pos, want := range vectors {
		got, err := idx.Reconstruct(pos)
		if err != nil {
			t.Fatalf("Reconstruct(%d) error = %v", pos, err)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Reconstruct(%d)[%d] = %v, want %v", pos, i, got[i], want[i])
			}
		}
	}

	// Returned vectors are copies.
	got, _ := idx.Reconstruct(0)
	got[0] = 42
	again, _ := idx.Reconstruct(0)
	if again[0] != 1 {
		t.Error("Reconstruct() exposed internal storage")
	}
}

func TestReconstruct_OutOfRange(t *testing.T) {
	t.Parallel()

	idx, err := Build(testVectors())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	for _, pos := range []int{-1, 4, 100} {
		_, err := idx.Reconstruct(pos)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("Reconstruct(%d) error = %v, want OutOfRangeError", pos, err)
		}
		if oor.Position != pos || oor.Size != 4 {
			t.Errorf("OutOfRangeError = %+v", oor)
		}
	}
}

func TestSearch_OrderAndTieBreak(t *testing.T) {
	t.Parallel()

	idx, err := Build(testVectors())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	matches, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	// Positions 0 and 3 tie at 1.0; the lower position comes first.
	wantPositions := []int{0, 3, 2}
	if len(matches) != len(wantPositions) {
		t.Fatalf("Search() returned %d matches, want %d", len(matches), len(wantPositions))
	}
	for i, want := range wantPositions {
		if matches[i].Position != want {
			t.Errorf("matches[%d].Position = %d, want %d", i, matches[i].Position, want)
		}
	}
	if matches[0].Score != matches[1].Score {
		t.Errorf("tied scores differ: %v vs %v", matches[0].Score, matches[1].Score)
	}
	if matches[2].Score >= matches[1].Score {
		t.Errorf("scores not descending: %v then %v", matches[1].Score, matches[2].Score)
	}
}

func TestSearch_KExceedsSize(t *testing.T) {
	t.Parallel()

	idx, err := Build(testVectors())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	matches, err := idx.Search([]float32{0, 1, 0}, 50)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) != idx.Len() {
		t.Fatalf("Search() returned %d matches, want all %d", len(matches), idx.Len())
	}

	seen := make(map[int]bool)
	for i, m := range matches {
		if m.Position < 0 || m.Position >= idx.Len() {
			t.Errorf("matches[%d].Position = %d is not a valid position", i, m.Position)
		}
		if seen[m.Position] {
			t.Errorf("position %d returned twice", m.Position)
		}
		seen[m.Position] = true
		if i > 0 && worse(matches[i-1], m) {
			t.Errorf("matches[%d] ranks above matches[%d]", i, i-1)
		}
	}
}

func TestSearch_Limits(t *testing.T) {
	t.Parallel()

	idx, err := Build(testVectors())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	tests := []struct {
		name    string
		query   []float32
		k       int
		wantLen int
		wantErr bool
	}{
		{name: "zero k", query: []float32{1, 0, 0}, k: 0, wantLen: 0},
		{name: "negative k", query: []float32{1, 0, 0}, k: -3, wantLen: 0},
		{name: "k of one", query: []float32{0, 1, 0}, k: 1, wantLen: 1},
		{name: "wrong dimension", query: []float32{1, 0}, k: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			matches, err := idx.Search(tt.query, tt.k)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Search() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(matches) != tt.wantLen {
				t.Errorf("Search() returned %d matches, want %d", len(matches), tt.wantLen)
			}
		})
	}
}

func TestSearch_MatchesExhaustiveRanking(t *testing.T) {
	t.Parallel()

	// A deterministic pseudo-random corpus exercises heap replacement.
	const n, dim = 200, 8
	vectors := make([][]float32, n)
	seed := uint32(7)
	for i := range vectors {
		v := make([]float32, dim)
		for j := range v {
			seed = seed*1664525 + 1013904223
			v[j] = float32(seed%1000)/500 - 1
		}
		vectors[i] = NormalizeL2(v)
	}

	idx, err := Build(vectors)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	query := vectors[17]
	all, err := idx.Search(query, n)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	top, err := idx.Search(query, 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	for i := range top {
		if top[i] != all[i] {
			t.Errorf("top[%d] = %+v, exhaustive = %+v", i, top[i], all[i])
		}
	}
	if all[0].Position != 17 {
		t.Errorf("best match for a stored vector = %d, want 17", all[0].Position)
	}
}
