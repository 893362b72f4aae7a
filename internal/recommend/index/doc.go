// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package index implements an exact flat inner-product index over unit vectors.
//
// A Flat index stores vectors row-major in a single float32 slice. Every
// search scans all stored vectors; there is no approximation or pruning.
// Positions are dense zero-based offsets assigned in insertion order and
// stay stable for the lifetime of the index.
//
// # Ordering
//
// Search results are ordered by score descending. Equal scores are ordered
// by ascending position so results are reproducible across runs.
//
// # Persistence
//
// Encode and Decode round-trip an index through a gob header followed by a
// gzip-compressed little-endian float32 payload. The header carries a
// SHA-256 checksum of the uncompressed payload and the generation ID the
// index was built for.
//
// # Thread Safety
//
// Add must not be called concurrently with other methods. Once construction
// is finished, Reconstruct and Search are safe for concurrent use.
package index
