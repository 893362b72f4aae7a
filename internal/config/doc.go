// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

/*
Package config provides centralized configuration management for Moviesim.

# Configuration Sources

LoadWithKoanf layers three sources, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml,
    /etc/moviesim/config.yaml or /etc/moviesim/config.yml
 3. Environment variables, after an optional .env file ($DOTENV_PATH or ./.env)
    has been merged into the process environment

Only environment variables listed in the mapping table are read. Anything
else in the environment is ignored.

# Environment Variables

Server:
  - HTTP_PORT / PORT: Listen port (default: 8000)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

Catalog:
  - CATALOG_SOURCE: postgres (default) or file
  - DATABASE_URL: postgres:// connection string (required for postgres)
  - DATABASE_MAX_CONNS, DATABASE_CONNECT_TIMEOUT
  - CATALOG_FILE: JSON item array (required for file)

Embedding:
  - EMBEDDING_PROVIDER: hashing (default), openai or tei
  - EMBEDDING_BASE_URL, EMBEDDING_API_KEY, EMBEDDING_MODEL, EMBEDDING_DIMENSION
  - EMBEDDING_BATCH_SIZE (default: 64), EMBEDDING_TIMEOUT, EMBEDDING_RPS
  - EMBEDDING_MAX_RETRIES, EMBEDDING_BREAKER_FAILURES, EMBEDDING_BREAKER_TIMEOUT

Artifacts:
  - ARTIFACTS_DIR (default: /data/artifacts)
  - INDEX_FILE (default: movie_index.bin)
  - METADATA_FILE (default: movie_metadata.json)
  - ARTIFACTS_KEEP_GENERATIONS (default: 3)

Recommendation:
  - RECOMMEND_DEFAULT_K (default: 10), RECOMMEND_MAX_K (default: 100)
  - RECOMMEND_QUERY_TIMEOUT, RECOMMEND_TRAIN_TIMEOUT
  - RECOMMEND_TRAIN_ON_STARTUP_IF_MISSING (default: true)
  - RECOMMEND_TRAIN_INTERVAL (default: 0, disabled)

Cache:
  - CACHE_ENABLED (default: true), CACHE_BACKEND: memory or badger
  - CACHE_PATH, CACHE_TTL (default: 24h), CACHE_MAX_ENTRIES

Security:
  - CORS_ORIGINS: comma-separated list (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Validation

Struct tags are checked with the shared validator from internal/validation,
then Validate applies rules that span fields, such as requiring DATABASE_URL
when the catalog source is postgres.
*/
package config
