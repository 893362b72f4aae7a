// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package middleware provides chi-compatible HTTP middleware.
//
//   - RequestID: assigns or propagates X-Request-ID and X-Correlation-ID and
//     stores both in the request context for internal/logging.
//   - PrometheusMetrics: request count, latency and in-flight gauges labeled by
//     chi route pattern so per-movie paths do not explode label cardinality.
//   - AccessLog: one structured line per request through logging.Ctx.
//
// Typical ordering inside the router:
//
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.AccessLog(time.Second, "/metrics"))
package middleware
