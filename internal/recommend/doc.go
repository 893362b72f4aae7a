// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package recommend implements content-based movie similarity.
//
// # Pipeline
//
// Training turns the catalog into a persisted generation:
//
//	Source.Items -> Synthesize -> Embedder.Embed -> index.NormalizeBatch
//	  -> index.Build -> storage.Store.Commit
//
// Item order is preserved end to end, so sidecar position i always
// describes index position i.
//
// Lookups resolve a movie ID to its position, reconstruct its stored
// vector, search the flat index for k+1 neighbors, drop the movie itself,
// and map the remaining positions back to IDs.
//
// # Failure Policy
//
// Recommend never returns an error; every failure degrades to an empty list.
// RecommendResult exposes the same lookup as a Result carrying an ErrorKind,
// which is what metrics, logs, and tests use to tell an unknown movie from a
// missing model.
//
// Training errors abort the run. The previous generation stays on disk and
// in memory until a new one has been committed completely.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Lookups read an atomically swapped
// generation pointer. At most one training run is active at a time; a
// second request gets ErrTrainingInProgress.
package recommend
