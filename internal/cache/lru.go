// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/tomtom215/moviesim/internal/metrics"
)

// lruEntry is the payload of one list element.
type lruEntry struct {
	key       string
	ids       []string
	expiresAt time.Time
}

// LRUCache is a bounded, thread-safe, in-process cache with a per-entry TTL.
//
// The list front is the most recently used entry. Expired entries are
// dropped lazily on Get or in bulk by CleanupExpired.
type LRUCache struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element

	hits   int64
	misses int64

	// now is replaceable in tests.
	now func() time.Time
}

// NewLRUCache creates a cache holding at most capacity lists (default 10000)
// for ttl each (default 24h).
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 10000
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns a copy of the cached list and marks it recently used.
func (c *LRUCache) Get(key string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if ok && c.now().After(el.Value.(*lruEntry).expiresAt) {
		c.remove(el)
		ok = false
	}
	metrics.RecordCacheLookup(string(CacheTypeMemory), ok)
	if !ok {
		c.misses++
		return nil, false
	}

	c.hits++
	c.order.MoveToFront(el)
	return append([]string(nil), el.Value.(*lruEntry).ids...), true
}

// Set stores a copy of ids, evicting least recently used entries over capacity.
func (c *LRUCache) Set(key string, ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &lruEntry{
		key:       key,
		ids:       append([]string(nil), ids...),
		expiresAt: c.now().Add(c.ttl),
	}

	if el, ok := c.items[key]; ok {
		el.Value = e
		c.order.MoveToFront(el)
		return
	}

	c.items[key] = c.order.PushFront(e)
	for c.order.Len() > c.capacity {
		c.remove(c.order.Back())
	}
}

// Remove deletes key and reports whether it was present.
func (c *LRUCache) Remove(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if ok {
		c.remove(el)
	}
	return ok
}

// Len returns the number of stored entries, expired ones included.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge drops every entry.
func (c *LRUCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.order.Init()
	clear(c.items)
	metrics.CachePurges.WithLabelValues(string(CacheTypeMemory)).Inc()
}

// CleanupExpired removes expired entries and returns how many were removed.
func (c *LRUCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		if now.After(el.Value.(*lruEntry).expiresAt) {
			c.remove(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Stats returns hit and miss counters and the current size.
func (c *LRUCache) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.order.Len()
}

// Close implements Cacher. The memory cache holds no external resources.
func (c *LRUCache) Close() error {
	return nil
}

// remove unlinks el. The caller holds mu.
func (c *LRUCache) remove(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*lruEntry).key)
}
