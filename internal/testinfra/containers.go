// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

//go:build integration

package testinfra

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

// RequirePostgres starts a Postgres container for the test, or skips the
// test when no container runtime is reachable. The container is terminated
// by t.Cleanup.
func RequirePostgres(t *testing.T, opts ...PostgresOption) *PostgresContainer {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := NewPostgresContainer(ctx, opts...)
	if pg != nil {
		testcontainers.CleanupContainer(t, pg.Container)
	}
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	return pg
}
