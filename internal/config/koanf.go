// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moviesim/config.yaml",
	"/etc/moviesim/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the location of the optional .env file.
const DotEnvPathEnvVar = "DOTENV_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			URL:            "",
			MaxConns:       4,
			ConnectTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Source:   "postgres",
			FilePath: "",
		},
		Embedding: EmbeddingConfig{
			Provider:          "hashing",
			BaseURL:           "",
			APIKey:            "",
			Model:             "",
			Dimension:         0, // 0 = provider default (hashing) or learned from the first response
			BatchSize:         64,
			Timeout:           60 * time.Second,
			RequestsPerSecond: 0, // Unlimited
			MaxRetries:        3,
			BreakerFailures:   5,
			BreakerTimeout:    30 * time.Second,
		},
		Artifacts: ArtifactsConfig{
			Dir:             "/data/artifacts",
			IndexFile:       "movie_index.bin",
			SidecarFile:     "movie_metadata.json",
			KeepGenerations: 3,
		},
		Recommend: RecommendConfig{
			DefaultK:                10,
			MaxK:                    100,
			QueryTimeout:            5 * time.Second,
			TrainTimeout:            2 * time.Hour,
			TrainOnStartupIfMissing: true,
			TrainInterval:           0, // Disabled; training is triggered over HTTP
		},
		Cache: CacheConfig{
			Enabled:    true,
			Backend:    "memory",
			Path:       "/data/cache",
			TTL:        24 * time.Hour,
			MaxEntries: 10000,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting (a .env file is read first)
//
// Precedence is ENV > File > Defaults.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: .env values join the process environment without replacing
	// variables that are already set, then environment variables are applied.
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads DOTENV_PATH or ./.env when present. A missing file is not
// an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"port":                  "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Upstream catalog mappings
	"database_url":             "database.url",
	"database_max_conns":       "database.max_conns",
	"database_connect_timeout": "database.connect_timeout",
	"catalog_source":           "catalog.source",
	"catalog_file":             "catalog.file_path",

	// Embedding mappings
	"embedding_provider":         "embedding.provider",
	"embedding_base_url":         "embedding.base_url",
	"embedding_api_key":          "embedding.api_key",
	"embedding_model":            "embedding.model",
	"embedding_dimension":        "embedding.dimension",
	"embedding_batch_size":       "embedding.batch_size",
	"embedding_timeout":          "embedding.timeout",
	"embedding_rps":              "embedding.requests_per_second",
	"embedding_max_retries":      "embedding.max_retries",
	"embedding_breaker_failures": "embedding.breaker_failures",
	"embedding_breaker_timeout":  "embedding.breaker_timeout",

	// Artifact mappings
	"artifacts_dir":              "artifacts.dir",
	"index_file":                 "artifacts.index_file",
	"metadata_file":              "artifacts.sidecar_file",
	"artifacts_keep_generations": "artifacts.keep_generations",

	// Recommendation mappings
	"recommend_default_k":                   "recommend.default_k",
	"recommend_max_k":                       "recommend.max_k",
	"recommend_query_timeout":               "recommend.query_timeout",
	"recommend_train_timeout":               "recommend.train_timeout",
	"recommend_train_on_startup_if_missing": "recommend.train_on_startup_if_missing",
	"recommend_train_interval":              "recommend.train_interval",

	// Cache mappings
	"cache_enabled":     "cache.enabled",
	"cache_backend":     "cache.backend",
	"cache_path":        "cache.path",
	"cache_ttl":         "cache.ttl",
	"cache_max_entries": "cache.max_entries",

	// Security mappings
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DATABASE_URL -> database.url
//   - EMBEDDING_PROVIDER -> embedding.provider
//   - INDEX_FILE -> artifacts.index_file
//
// Unmapped keys return "" so unrelated environment variables never reach
// the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// joinHostPort formats a listen address.
func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
