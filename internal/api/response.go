// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviesim/internal/logging"
	"github.com/tomtom215/moviesim/internal/middleware"
)

// Error codes for API responses.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeTooManyRequests = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// APIError represents an error response.
type APIError struct {
	// Code is a machine-readable error code
	Code string `json:"code"`

	// Message is a human-readable error message
	Message string `json:"message"`

	// Details contains additional error details (optional)
	Details interface{} `json:"details,omitempty"`

	// RequestID is the request ID for tracing
	RequestID string `json:"request_id,omitempty"`
}

// errorResponse wraps APIError so error bodies read {"error": {...}}.
type errorResponse struct {
	Error *APIError `json:"error"`
}

// HealthResponse is the body of GET /.
type HealthResponse struct {
	Status       string `json:"status"`
	Service      string `json:"service"`
	GenerationID string `json:"generation_id,omitempty"`
	Items        int    `json:"items"`
}

// TrainResponse is the body of an accepted POST /train.
type TrainResponse struct {
	Message string `json:"message"`
}

// RecommendResponse is the body of GET /recommend/{movieID}.
// Recommendations is always a list, never null.
type RecommendResponse struct {
	MovieID         string   `json:"movie_id"`
	Recommendations []string `json:"recommendations"`
}

// respondJSON writes data as JSON with the given status code.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// respondError writes the standard error body, tagged with the request ID.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details interface{}) {
	respondJSON(w, status, errorResponse{
		Error: &APIError{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}
