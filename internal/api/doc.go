// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

/*
Package api exposes the recommendation engine over HTTP using the Chi router.

# Endpoints

	GET  /                      health: {"status":"ok","service":"moviesim",...}
	GET  /status                engine and last training run status
	POST /train                 start a background training run (202, 409 when busy)
	GET  /recommend/{movieID}   {"movie_id": "...", "recommendations": [...]}
	GET  /metrics               Prometheus exposition

The recommend endpoint accepts an optional k query parameter. Missing or
malformed values select the configured default; values above the configured
maximum are clamped. Lookup failures, including unknown ids, answer 200 with
an empty list.

# Middleware

Every route passes through request ID propagation, real IP extraction, panic
recovery, CORS, Prometheus instrumentation and access logging. Rate limits
are per client IP with separate budgets for health, training and lookups.

Error responses share one body shape:

	{"error": {"code": "CONFLICT", "message": "...", "request_id": "..."}}
*/
package api
