// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package config

import "time"

// Config holds all application configuration.
//
// Values are layered by LoadWithKoanf: struct defaults, then an optional YAML
// file, then environment variables. Struct tags drive both koanf unmarshaling
// and validator checks; cross-field rules live in Validate.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Recommend RecommendConfig `koanf:"recommend"`
	Cache     CacheConfig     `koanf:"cache"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	Environment     string        `koanf:"environment" validate:"oneof=development staging production"`
}

// DatabaseConfig holds the upstream movie catalog connection.
// Only used when Catalog.Source is "postgres".
type DatabaseConfig struct {
	URL            string        `koanf:"url"`
	MaxConns       int32         `koanf:"max_conns" validate:"min=0"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" validate:"gte=0"`
}

// CatalogConfig selects where training items are fetched from.
type CatalogConfig struct {
	// Source is "postgres" (relational catalog) or "file" (JSON array of items).
	Source string `koanf:"source" validate:"oneof=postgres file"`

	// FilePath is the JSON corpus used when Source is "file".
	FilePath string `koanf:"file_path"`
}

// EmbeddingConfig configures the text embedding producer.
type EmbeddingConfig struct {
	// Provider is "hashing" (offline, deterministic), "openai" or "tei".
	Provider          string        `koanf:"provider" validate:"oneof=hashing openai tei"`
	BaseURL           string        `koanf:"base_url" validate:"omitempty,http_url"`
	APIKey            string        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	Dimension         int           `koanf:"dimension" validate:"min=0"`
	BatchSize         int           `koanf:"batch_size" validate:"min=1"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"gte=0"`
	MaxRetries        int           `koanf:"max_retries" validate:"min=0,max=10"`
	BreakerFailures   uint32        `koanf:"breaker_failures" validate:"min=1"`
	BreakerTimeout    time.Duration `koanf:"breaker_timeout" validate:"gt=0"`
}

// ArtifactsConfig locates persisted index generations.
type ArtifactsConfig struct {
	Dir             string `koanf:"dir" validate:"required"`
	IndexFile       string `koanf:"index_file" validate:"required"`
	SidecarFile     string `koanf:"sidecar_file" validate:"required"`
	KeepGenerations int    `koanf:"keep_generations" validate:"min=1"`
}

// RecommendConfig tunes query and training behavior.
type RecommendConfig struct {
	DefaultK     int           `koanf:"default_k" validate:"min=1"`
	MaxK         int           `koanf:"max_k" validate:"min=1"`
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`
	TrainTimeout time.Duration `koanf:"train_timeout" validate:"gt=0"`

	// TrainOnStartupIfMissing trains synchronously before serving when no
	// generation has been committed yet.
	TrainOnStartupIfMissing bool `koanf:"train_on_startup_if_missing"`

	// TrainInterval schedules periodic retraining. 0 disables it.
	TrainInterval time.Duration `koanf:"train_interval" validate:"gte=0"`
}

// CacheConfig configures the recommendation result cache.
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Backend    string        `koanf:"backend" validate:"oneof=memory badger"`
	Path       string        `koanf:"path"`
	TTL        time.Duration `koanf:"ttl" validate:"gt=0"`
	MaxEntries int           `koanf:"max_entries" validate:"min=1"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging configuration for zerolog.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level" validate:"oneof=trace debug info warn error"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the host:port the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
