// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package catalog supplies the training corpus.
//
// PostgresSource reads active, non-deleted movies with their genres and
// people aggregated into space-joined strings. FileSource reads the same
// shape from a JSON file and is meant for local runs and demos.
//
// Both return items ordered by ID so repeated runs over an unchanged catalog
// produce identical index positions.
package catalog
