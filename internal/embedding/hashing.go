// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package embedding

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// DefaultHashingDimension matches the output size of common small sentence models.
const DefaultHashingDimension = 384

// HashingEmbedder is a deterministic, in-process embedder based on signed
// feature hashing of lower-cased word tokens. It needs no model download and
// no corpus preparation, which makes it the default for local runs and tests.
type HashingEmbedder struct {
	dim int
}

// NewHashingEmbedder creates a hashing embedder. dim <= 0 selects the default.
func NewHashingEmbedder(dim int) (*HashingEmbedder, error) {
	if dim <= 0 {
		dim = DefaultHashingDimension
	}
	if dim > 1<<16 {
		return nil, fmt.Errorf("hashing dimension %d too large", dim)
	}
	return &HashingEmbedder{dim: dim}, nil
}

// Embed implements Embedder.
func (h *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

// Dimension implements Embedder.
func (h *HashingEmbedder) Dimension() int {
	return h.dim
}

// Model implements Embedder.
func (h *HashingEmbedder) Model() string {
	return fmt.Sprintf("hashing-xxh64-%d", h.dim)
}

func (h *HashingEmbedder) vector(text string) []float32 {
	v := make([]float32, h.dim)
	for _, tok := range tokenize(text) {
		sum := xxhash.Sum64String(tok)
		bucket := int(sum % uint64(h.dim)) //nolint:gosec // dim is bounded above
		if sum>>63 == 1 {
			v[bucket]--
		} else {
			v[bucket]++
		}
	}
	return v
}

// tokenize splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
