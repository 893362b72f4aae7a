// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package recommend

import (
	"fmt"
	"time"
)

// Config contains configuration for the recommendation engine.
type Config struct {
	// DefaultK is used when a caller asks for k <= 0.
	DefaultK int `json:"default_k"`

	// MaxK caps the number of recommendations per lookup.
	MaxK int `json:"max_k"`

	// QueryTimeout bounds a single lookup, including a lazy generation load.
	QueryTimeout time.Duration `json:"query_timeout"`

	// TrainTimeout bounds an entire training run.
	TrainTimeout time.Duration `json:"train_timeout"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultK:     10,
		MaxK:         100,
		QueryTimeout: 5 * time.Second,
		TrainTimeout: 2 * time.Hour,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k (%d) must be >= default_k (%d)", c.MaxK, c.DefaultK)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("query_timeout must be positive, got %v", c.QueryTimeout)
	}
	if c.TrainTimeout <= 0 {
		return fmt.Errorf("train_timeout must be positive, got %v", c.TrainTimeout)
	}
	return nil
}

// clampK applies the default and the upper bound to a requested k.
func (c *Config) clampK(k int) int {
	if k <= 0 {
		return c.DefaultK
	}
	if k > c.MaxK {
		return c.MaxK
	}
	return k
}
