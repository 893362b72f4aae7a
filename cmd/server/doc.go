// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package main is the entry point for the moviesim server.
//
// moviesim recommends similar movies by embedding a text "soup" of each
// title, overview, genre list and cast/crew list, and searching an exact
// inner-product index over the normalized vectors.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml, .env and environment (Koanf v2)
//  2. Logging: zerolog, level and format from configuration
//  3. Catalog: Postgres (pgx pool) or a JSON file
//  4. Embedder: local hashing, OpenAI-compatible or TEI
//  5. Artifact store and optional result cache (memory or BadgerDB)
//  6. Startup training when no generation exists yet
//  7. Supervisor tree: HTTP server and optional training scheduler
//
// A failed startup training is logged and the server still starts; lookups
// return empty lists until a later POST /train succeeds.
//
// # Example Usage
//
//	export DATABASE_URL=postgres://moviesim:secret@db:5432/movies
//	export ARTIFACTS_DIR=/data/artifacts
//	./moviesim
//
// Local run against a JSON catalog:
//
//	CATALOG_SOURCE=file CATALOG_FILE=./movies.json ARTIFACTS_DIR=./artifacts ./moviesim
//
// # Signal Handling
//
// SIGINT and SIGTERM stop the supervisor tree. The HTTP server drains within
// HTTP_SHUTDOWN_TIMEOUT, then any background training run is canceled and
// awaited before the catalog and cache are closed.
package main
