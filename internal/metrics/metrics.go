// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - Training runs (pipeline stages, corpus size, outcome)
// - Recommendation queries and index search latency
// - Embedding provider calls and circuit breaker state
// - Result cache efficiency
// - API endpoint latency and throughput

var (
	// Training Metrics
	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesim_training_runs_total",
			Help: "Total number of training runs by outcome",
		},
		[]string{"outcome"}, // "success", "upstream_fetch", "embedding", "internal", "busy"
	)

	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviesim_training_duration_seconds",
			Help:    "Duration of training runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	TrainingStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviesim_training_stage_duration_seconds",
			Help:    "Duration of individual training stages in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"}, // "fetch", "embed", "build", "commit"
	)

	TrainingItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviesim_training_items",
			Help: "Number of items in the serving generation",
		},
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviesim_training_last_success_timestamp",
			Help: "Unix timestamp of the last successful training run",
		},
	)

	// Query Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesim_recommend_requests_total",
			Help: "Total number of recommendation lookups by outcome kind",
		},
		[]string{"kind"}, // "ok", "artifacts_missing", "item_not_found", "out_of_range", "internal"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviesim_recommend_duration_seconds",
			Help:    "End-to-end recommendation lookup duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	IndexSearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviesim_index_search_duration_seconds",
			Help:    "Flat index search duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)

	// Embedding Metrics
	EmbeddingRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviesim_embedding_request_duration_seconds",
			Help:    "Duration of embedding provider requests in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)

	EmbeddingTexts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesim_embedding_texts_total",
			Help: "Total number of texts embedded",
		},
		[]string{"provider"},
	)

	EmbeddingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviesim_embedding_errors_total",
			Help: "Total number of failed embedding requests",
		},
		[]string{"provider", "error_type"}, // error_type: "transport", "status", "decode", "breaker_open"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "memory", "badger"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CachePurges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_purges_total",
			Help: "Total number of full cache purges",
		},
		[]string{"cache_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}, // recommendation lookups are sub-second
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordTraining records the outcome of a training run.
func RecordTraining(outcome string, duration time.Duration, items int) {
	TrainingRuns.WithLabelValues(outcome).Inc()
	if outcome == "busy" {
		return
	}
	TrainingDuration.Observe(duration.Seconds())
	if outcome == "success" {
		TrainingItems.Set(float64(items))
		TrainingLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordTrainingStage records the duration of one training stage.
func RecordTrainingStage(stage string, duration time.Duration) {
	TrainingStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRecommendation records a recommendation lookup.
func RecordRecommendation(kind string, duration time.Duration) {
	RecommendRequests.WithLabelValues(kind).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordIndexSearch records a flat index search.
func RecordIndexSearch(duration time.Duration) {
	IndexSearchDuration.Observe(duration.Seconds())
}

// RecordEmbeddingRequest records a provider request. errorType is empty on success.
func RecordEmbeddingRequest(provider string, texts int, duration time.Duration, errorType string) {
	EmbeddingRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
	if errorType != "" {
		EmbeddingErrors.WithLabelValues(provider, errorType).Inc()
		return
	}
	EmbeddingTexts.WithLabelValues(provider).Add(float64(texts))
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
	} else {
		CacheMisses.WithLabelValues(cacheType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
