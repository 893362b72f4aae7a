// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviesim/internal/recommend"
)

// itemsQuery aggregates genres and people per movie. LEFT JOINs keep movies
// without genre or people rows; COALESCE turns their NULL aggregates into
// empty strings.
const itemsQuery = `
SELECT
	m.id::text AS id,
	m.title,
	COALESCE(m.description, '') AS overview,
	COALESCE(string_agg(DISTINCT g.name, ' '), '') AS genres,
	COALESCE(string_agg(DISTINCT p.name, ' '), '') AS cast_crew
FROM movies m
LEFT JOIN "MovieGenre" mg ON m.id = mg.movie_id
LEFT JOIN "Genre" g ON mg.genre_id = g.id
LEFT JOIN "MoviePerson" mp ON m.id = mp.movie_id
LEFT JOIN "Person" p ON mp.person_id = p.id
WHERE m.is_deleted = false AND m.is_active = true
GROUP BY m.id
ORDER BY m.id`

// PostgresConfig configures the relational catalog.
type PostgresConfig struct {
	// URL is a pgx connection string.
	URL string

	// MaxConns caps the pool size.
	MaxConns int32

	// ConnectTimeout bounds the initial connection and ping.
	ConnectTimeout time.Duration
}

// PostgresSource reads the corpus from Postgres.
type PostgresSource struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresSource connects to Postgres and verifies the connection.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPostgresSource(ctx context.Context, cfg PostgresConfig, logger zerolog.Logger) (*PostgresSource, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresSource{
		pool:   pool,
		logger: logger.With().Str("component", "catalog").Str("source", "postgres").Logger(),
	}, nil
}

// Items implements recommend.Source.
func (s *PostgresSource) Items(ctx context.Context) ([]recommend.Item, error) {
	start := time.Now()

	rows, err := s.pool.Query(ctx, itemsQuery)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (recommend.Item, error) {
		var it recommend.Item
		err := row.Scan(&it.ID, &it.Title, &it.Overview, &it.Genres, &it.CastCrew)
		return it, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan movies: %w", err)
	}

	s.logger.Debug().
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("fetched catalog")

	return items, nil
}

// Ping checks the database connection.
func (s *PostgresSource) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresSource) Close() {
	s.pool.Close()
}
