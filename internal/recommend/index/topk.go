// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package index

import (
	"math"
	"sort"
)

// topK keeps the k best matches seen so far in a bounded min-heap.
// The root is always the worst retained match, so each offer is O(log k).
type topK struct {
	k    int
	heap []Match
}

func newTopK(k int) *topK {
	return &topK{k: k, heap: make([]Match, 0, k)}
}

// worse reports whether a ranks below b: lower score, or equal score at a
// higher position.
func worse(a, b Match) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.Position > b.Position
}

func (t *topK) offer(m Match) {
	if math.IsNaN(float64(m.Score)) {
		m.Score = float32(math.Inf(-1))
	}

	if len(t.heap) < t.k {
		t.heap = append(t.heap, m)
		t.bubbleUp(len(t.heap) - 1)
		return
	}

	if worse(t.heap[0], m) {
		t.heap[0] = m
		t.bubbleDown(0)
	}
}

// sorted drains the heap into best-first order.
func (t *topK) sorted() []Match {
	out := make([]Match, len(t.heap))
	copy(out, t.heap)
	sort.Slice(out, func(i, j int) bool {
		return worse(out[j], out[i])
	})
	return out
}

func (t *topK) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(t.heap[i], t.heap[parent]) {
			return
		}
		t.heap[i], t.heap[parent] = t.heap[parent], t.heap[i]
		i = parent
	}
}

func (t *topK) bubbleDown(i int) {
	n := len(t.heap)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && worse(t.heap[left], t.heap[smallest]) {
			smallest = left
		}
		if right < n && worse(t.heap[right], t.heap[smallest]) {
			smallest = right
		}
		if smallest == i {
			return
		}

		t.heap[i], t.heap[smallest] = t.heap[smallest], t.heap[i]
		i = smallest
	}
}
