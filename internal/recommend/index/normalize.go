// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package index

import "math"

// NormalizeL2 returns a copy of v rescaled to unit L2 norm.
//
// The zero vector, and any vector with a non-finite component, maps to the
// zero vector of the same dimension. A zero vector scores 0 against every
// other vector, so it never outranks a real match.
func NormalizeL2(v []float32) []float32 {
	out := make([]float32, len(v))

	var sumSquares float64
	for _, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return out
		}
		sumSquares += f * f
	}

	if sumSquares == 0 {
		return out
	}

	magnitude := math.Sqrt(sumSquares)
	for i, x := range v {
		out[i] = float32(float64(x) / magnitude)
	}

	return out
}

// NormalizeBatch normalizes every vector, preserving order.
func NormalizeBatch(vectors [][]float32) [][]float32 {
	out := make([][]float32, len(vectors))
	for i, v := range vectors {
		out[i] = NormalizeL2(v)
	}
	return out
}

// Norm returns the L2 norm of v.
func Norm(v []float32) float64 {
	var sumSquares float64
	for _, x := range v {
		sumSquares += float64(x) * float64(x)
	}
	return math.Sqrt(sumSquares)
}
