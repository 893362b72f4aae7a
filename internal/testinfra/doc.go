// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run a real Postgres for the catalog
// source, so the aggregate query is exercised against the actual SQL dialect
// instead of a mock.
//
//	func TestCatalog(t *testing.T) {
//	    pg := testinfra.RequirePostgres(t)
//	    if err := pg.Exec(ctx, testinfra.CatalogSchema); err != nil {
//	        t.Fatal(err)
//	    }
//	    // pg.URL is a pgx connection string
//	}
//
// # Running
//
// All files carry the integration build tag:
//
//	go test -tags integration ./...
//
// Tests skip when no container runtime is reachable.
package testinfra
