// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package cache

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviesim/internal/metrics"
)

// Key prefix for namespacing recommendation lists in BadgerDB.
const badgerResultKeyPrefix = "rec:"

const badgerGCInterval = 10 * time.Minute

// BadgerCache persists recommendation lists in BadgerDB with per-entry TTL.
type BadgerCache struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// OpenBadgerCache opens (or creates) a BadgerDB at path. An empty path opens
// an in-memory database.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func OpenBadgerCache(path string, ttl time.Duration, logger zerolog.Logger) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil                // Suppress BadgerDB internal logs
	opts.ValueLogFileSize = 16 << 20 // 16MB, entries are small id lists

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for result cache: %w", err)
	}

	c := newBadgerCache(db, ttl, logger)
	if path != "" {
		c.wg.Add(1)
		go c.gcLoop()
	}
	return c, nil
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func newBadgerCache(db *badger.DB, ttl time.Duration, logger zerolog.Logger) *BadgerCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &BadgerCache{
		db:     db,
		ttl:    ttl,
		logger: logger.With().Str("component", "result-cache").Str("backend", "badger").Logger(),
		stop:   make(chan struct{}),
	}
}

// Get implements Cacher.
func (c *BadgerCache) Get(key string) ([]string, bool) {
	var ids []string

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerResultKeyPrefix + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ids)
		})
	})

	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			c.logger.Warn().Err(err).Str("key", key).Msg("result cache read failed")
		}
		metrics.RecordCacheLookup(string(CacheTypeBadger), false)
		return nil, false
	}

	metrics.RecordCacheLookup(string(CacheTypeBadger), true)
	return ids, true
}

// Set implements Cacher. Write failures are logged and otherwise ignored;
// the cache is an optimization.
func (c *BadgerCache) Set(key string, ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		c.logger.Warn().Err(err).Msg("marshal cached result")
		return
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(badgerResultKeyPrefix+key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("result cache write failed")
	}
}

// Purge implements Cacher.
func (c *BadgerCache) Purge() {
	if err := c.db.DropPrefix([]byte(badgerResultKeyPrefix)); err != nil {
		c.logger.Warn().Err(err).Msg("result cache purge failed")
		return
	}
	metrics.CachePurges.WithLabelValues(string(CacheTypeBadger)).Inc()
}

// RunGC runs BadgerDB value log garbage collection once.
func (c *BadgerCache) RunGC() error {
	err := c.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) {
		return nil
	}
	return err
}

// Close stops background GC and closes the database.
func (c *BadgerCache) Close() error {
	c.stopOnce.Do(func() { close(c.stop) })
	c.wg.Wait()
	return c.db.Close()
}

func (c *BadgerCache) gcLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(badgerGCInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if err := c.RunGC(); err != nil {
				c.logger.Debug().Err(err).Msg("value log GC")
			}
		}
	}
}

// Compile-time interface assertions
var (
	_ Cacher = (*BadgerCache)(nil)
	_ Cacher = (*LRUCache)(nil)
)
