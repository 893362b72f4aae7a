// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package storage persists trained generations: a flat index plus the
// identity sidecar that maps index positions back to movie IDs.
//
// # Layout
//
//	{dir}/
//	  CURRENT                          name of the serving generation
//	  generations/
//	    {generation-id}/
//	      {index_file}                 gob header + gzip float32 payload
//	      {sidecar_file}               JSON ordered (id, title) list
//
// # Commit Protocol
//
// A commit writes both files into a fresh staging directory, fsyncs them,
// renames the staging directory to its generation name, and finally replaces
// CURRENT through a temp file and rename. A reader resolves CURRENT once and
// reads both files from the same generation directory, so it observes either
// the previous pair or the new pair, never a mix. A commit that fails before
// CURRENT is replaced leaves the previous generation serving.
//
// Generation IDs are UUIDv7 strings, which sort by creation time. Pruning
// keeps the newest directories and never removes the serving generation.
package storage
