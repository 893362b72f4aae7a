// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8000/metrics

# Available Metrics

Training:
  - moviesim_training_runs_total (counter, labels: outcome)
  - moviesim_training_duration_seconds (histogram)
  - moviesim_training_stage_duration_seconds (histogram, labels: stage)
  - moviesim_training_items (gauge)
  - moviesim_training_last_success_timestamp (gauge)

Queries:
  - moviesim_recommend_requests_total (counter, labels: kind)
  - moviesim_recommend_duration_seconds (histogram)
  - moviesim_index_search_duration_seconds (histogram)

Embedding:
  - moviesim_embedding_request_duration_seconds (histogram, labels: provider)
  - moviesim_embedding_texts_total (counter, labels: provider)
  - moviesim_embedding_errors_total (counter, labels: provider, error_type)
  - circuit_breaker_state, circuit_breaker_state_transitions_total

Cache:
  - cache_hits_total, cache_misses_total, cache_purges_total (labels: cache_type)

API:
  - api_requests_total (counter, labels: method, endpoint, status_code)
  - api_request_duration_seconds (histogram, labels: method, endpoint)
  - api_active_requests (gauge)
  - api_rate_limit_hits_total (counter, labels: endpoint)

# Usage

	start := time.Now()
	// ... serve request ...
	metrics.RecordAPIRequest("GET", "/recommend/{movieID}", "200", time.Since(start))

Recording functions are safe for concurrent use.
*/
package metrics
