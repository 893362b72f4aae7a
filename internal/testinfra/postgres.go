// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultPostgresImage is the Postgres image used for catalog tests.
	DefaultPostgresImage = "postgres:16-alpine"

	// DefaultPostgresPort is the container-side Postgres port.
	DefaultPostgresPort = "5432"

	postgresUser     = "moviesim"
	postgresPassword = "moviesim"
	postgresDB       = "moviesim"
)

// CatalogSchema creates the tables the catalog query reads.
const CatalogSchema = `
CREATE TABLE movies (
	id          SERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT,
	is_active   BOOLEAN NOT NULL DEFAULT true,
	is_deleted  BOOLEAN NOT NULL DEFAULT false
);
CREATE TABLE "Genre" (
	id   SERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);
CREATE TABLE "MovieGenre" (
	movie_id INT NOT NULL REFERENCES movies(id),
	genre_id INT NOT NULL REFERENCES "Genre"(id),
	PRIMARY KEY (movie_id, genre_id)
);
CREATE TABLE "Person" (
	id   SERIAL PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE "MoviePerson" (
	movie_id  INT NOT NULL REFERENCES movies(id),
	person_id INT NOT NULL REFERENCES "Person"(id),
	role      TEXT NOT NULL DEFAULT 'cast',
	PRIMARY KEY (movie_id, person_id, role)
);
`

// PostgresContainer is a running Postgres instance for integration tests.
type PostgresContainer struct {
	testcontainers.Container
	URL string
}

// PostgresOption configures the Postgres container.
type PostgresOption func(*postgresConfig)

type postgresConfig struct {
	image        string
	startTimeout time.Duration
}

// WithPostgresImage sets a custom Postgres image.
func WithPostgresImage(image string) PostgresOption {
	return func(c *postgresConfig) {
		c.image = image
	}
}

// WithStartTimeout sets how long to wait for Postgres to accept connections.
func WithStartTimeout(timeout time.Duration) PostgresOption {
	return func(c *postgresConfig) {
		c.startTimeout = timeout
	}
}

// NewPostgresContainer starts Postgres and returns a connection URL.
// Tests normally go through RequirePostgres. On error the returned container,
// if non-nil, still needs terminating.
func NewPostgresContainer(ctx context.Context, opts ...PostgresOption) (*PostgresContainer, error) {
	cfg := &postgresConfig{
		image:        DefaultPostgresImage,
		startTimeout: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultPostgresPort + "/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     postgresUser,
			"POSTGRES_PASSWORD": postgresPassword,
			"POSTGRES_DB":       postgresDB,
		},
		// The entrypoint restarts the server once after init; wait for the second ready line.
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultPostgresPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if container != nil {
			return &PostgresContainer{Container: container}, fmt.Errorf("create postgres container: %w", err)
		}
		return nil, fmt.Errorf("create postgres container: %w", err)
	}

	pg := &PostgresContainer{Container: container}

	host, err := container.Host(ctx)
	if err != nil {
		return pg, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultPostgresPort)
	if err != nil {
		return pg, fmt.Errorf("get mapped port: %w", err)
	}

	pg.URL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, host, port.Port(), postgresDB)
	return pg, nil
}

// Exec runs sql against the container database on a short-lived connection.
func (c *PostgresContainer) Exec(ctx context.Context, sql string, args ...any) error {
	conn, err := pgx.Connect(ctx, c.URL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(ctx) //nolint:errcheck // test helper

	if _, err := conn.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}
