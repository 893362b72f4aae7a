// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Embedder maps texts to dense vectors.
//
// Embed returns exactly one vector per input text, in input order, and every
// vector has the same dimension. Implementations must be safe for concurrent use.
type Embedder interface {
	// Embed converts texts into vectors.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimension, or 0 if it is only known
	// after the first successful call.
	Dimension() int

	// Model names the model that produces the vectors.
	Model() string
}

// Provider names.
const (
	ProviderHashing = "hashing"
	ProviderOpenAI  = "openai"
	ProviderTEI     = "tei"
)

// Config selects and configures an embedding provider.
type Config struct {
	// Provider is one of "hashing", "openai" or "tei".
	Provider string

	// BaseURL of the remote provider, e.g. "https://api.openai.com/v1" or "http://tei:8080".
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Model is the remote model name. The hashing provider reports its own.
	Model string

	// Dimension is the hashing dimension, or the expected remote dimension (0 = accept any).
	Dimension int

	// BatchSize is the number of texts sent per remote request.
	BatchSize int

	// Timeout bounds a single remote request.
	Timeout time.Duration

	// RequestsPerSecond throttles remote requests (0 = unlimited).
	RequestsPerSecond float64

	// MaxRetries is the number of retries for 429 and 5xx responses.
	MaxRetries int

	// BreakerFailures is the consecutive failure count that opens the circuit.
	BreakerFailures uint32

	// BreakerTimeout is how long the circuit stays open before probing.
	BreakerTimeout time.Duration
}

// New builds the embedder named by cfg.Provider.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (Embedder, error) {
	switch cfg.Provider {
	case ProviderHashing, "":
		return NewHashingEmbedder(cfg.Dimension)
	case ProviderOpenAI, ProviderTEI:
		return NewHTTPEmbedder(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
