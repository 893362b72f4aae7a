// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

//go:build integration

package catalog

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moviesim/internal/embedding"
	"github.com/tomtom215/moviesim/internal/recommend"
	"github.com/tomtom215/moviesim/internal/recommend/storage"
	"github.com/tomtom215/moviesim/internal/testinfra"
)

const seedSQL = `
INSERT INTO movies (id, title, description, is_active, is_deleted) VALUES
	(1, 'Alpha', 'a heist', true, false),
	(2, 'Bravo', NULL, true, false),
	(3, 'Charlie', 'a wedding', true, false),
	(4, 'Deleted', 'gone', true, true),
	(5, 'Inactive', 'hidden', false, false);
INSERT INTO "Genre" (id, name) VALUES (1, 'Action'), (2, 'Drama');
INSERT INTO "MovieGenre" (movie_id, genre_id) VALUES (1, 1), (2, 1), (3, 2), (4, 1);
INSERT INTO "Person" (id, name) VALUES (1, 'Keanu'), (2, 'Sandra');
INSERT INTO "MoviePerson" (movie_id, person_id, role) VALUES
	(1, 1, 'cast'), (1, 1, 'producer'), (1, 2, 'cast');
`

func TestPostgresSource_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	pg := testinfra.RequirePostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	if err := pg.Exec(ctx, testinfra.CatalogSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if err := pg.Exec(ctx, seedSQL); err != nil {
		t.Fatalf("seed: %v", err)
	}

	src, err := NewPostgresSource(ctx, PostgresConfig{URL: pg.URL, MaxConns: 2}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewPostgresSource() error = %v", err)
	}
	defer src.Close()

	items, err := src.Items(ctx)
	if err != nil {
		t.Fatalf("Items() error = %v", err)
	}

	want := []recommend.Item{
		{ID: "1", Title: "Alpha", Overview: "a heist", Genres: "Action", CastCrew: "Keanu Sandra"},
		{ID: "2", Title: "Bravo", Overview: "", Genres: "Action", CastCrew: ""},
		{ID: "3", Title: "Charlie", Overview: "a wedding", Genres: "Drama", CastCrew: ""},
	}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("Items() = %+v, want %+v", items, want)
	}

	t.Run("trains end to end", func(t *testing.T) {
		store, err := storage.NewStore(storage.DefaultConfig(t.TempDir()), zerolog.Nop())
		if err != nil {
			t.Fatalf("NewStore() error = %v", err)
		}
		emb, _ := embedding.NewHashingEmbedder(0)

		engine, err := recommend.NewEngine(nil, src, emb, store, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		defer engine.Close()

		if err := engine.Train(ctx); err != nil {
			t.Fatalf("Train() error = %v", err)
		}
		got := engine.Recommend(ctx, "1", 2)
		if len(got) != 2 || got[0] != "2" {
			t.Errorf("Recommend(1, 2) = %v, want movie 2 first", got)
		}
	})
}
