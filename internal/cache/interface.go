// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package cache

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Cacher stores recommendation lists keyed by string.
// All implementations are safe for concurrent use.
type Cacher interface {
	// Get returns the cached list and true if present and not expired.
	Get(key string) ([]string, bool)

	// Set stores ids under key with the configured TTL.
	Set(key string, ids []string)

	// Purge removes every entry.
	Purge()

	// Close releases resources held by the cache.
	Close() error
}

// CacheType selects the backing store.
type CacheType string

const (
	// CacheTypeMemory is an in-process LRU with TTL. Lost on restart.
	CacheTypeMemory CacheType = "memory"

	// CacheTypeBadger persists entries in an embedded BadgerDB so a restart
	// keeps serving cached neighbors for the same generation.
	CacheTypeBadger CacheType = "badger"
)

// Config configures a result cache.
type Config struct {
	// Type is "memory" or "badger".
	Type CacheType

	// TTL is the time-to-live for entries.
	TTL time.Duration

	// Capacity bounds the memory cache.
	Capacity int

	// Path is the BadgerDB directory (badger only).
	Path string
}

// New builds the cache selected by cfg.Type.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg Config, logger zerolog.Logger) (Cacher, error) {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}

	switch cfg.Type {
	case CacheTypeMemory, "":
		return NewLRUCache(cfg.Capacity, cfg.TTL), nil
	case CacheTypeBadger:
		return OpenBadgerCache(cfg.Path, cfg.TTL, logger)
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
