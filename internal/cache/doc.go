// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package cache stores recommendation lists so repeated lookups skip the
// index scan.
//
// Two backends implement Cacher:
//
//   - LRUCache: in-process doubly-linked-list LRU with lazy TTL expiry.
//   - BadgerCache: embedded BadgerDB with per-entry TTL, surviving restarts.
//
// Keys are built by the caller and include the generation ID, so entries
// from an older generation are never returned for a newer one. Purge is
// still called after every commit to reclaim space.
package cache
