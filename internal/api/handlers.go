// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moviesim/internal/logging"
	"github.com/tomtom215/moviesim/internal/recommend"
	"github.com/tomtom215/moviesim/internal/validation"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "moviesim"

// Recommender is the slice of the recommendation engine the handlers use.
type Recommender interface {
	Recommend(ctx context.Context, movieID string, k int) []string
	TrainAsync() error
	Status() recommend.Status
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine Recommender
}

// NewHandler creates a Handler backed by engine.
func NewHandler(engine Recommender) *Handler {
	return &Handler{engine: engine}
}

// Health handles GET /.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	st := h.engine.Status()
	respondJSON(w, http.StatusOK, HealthResponse{
		Status:       "ok",
		Service:      ServiceName,
		GenerationID: st.GenerationID,
		Items:        st.Items,
	})
}

// Status handles GET /status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.engine.Status())
}

// Train handles POST /train. The run happens in the background; a second
// trigger while one is running gets 409.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	err := h.engine.TrainAsync()
	switch {
	case err == nil:
		logging.Ctx(r.Context()).Info().Msg("Training triggered")
		respondJSON(w, http.StatusAccepted, TrainResponse{Message: "Training started in background"})
	case errors.Is(err, recommend.ErrTrainingInProgress):
		respondError(w, r, http.StatusConflict, ErrCodeConflict, "Training already in progress", nil)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to start training")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Failed to start training", nil)
	}
}

// Recommend handles GET /recommend/{movieID}?k=N. Lookup failures of any
// kind answer 200 with an empty list.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "movieID")
	movieID, err := url.PathUnescape(raw)
	if err != nil {
		movieID = raw
	}

	k := parseK(r.URL.Query().Get("k"))

	ids := []string{}
	if validation.IsValidMovieID(movieID) {
		ids = h.engine.Recommend(r.Context(), movieID, k)
	} else {
		logging.Ctx(r.Context()).Warn().Str("movie_id", movieID).Msg("Rejected malformed movie id")
	}
	if ids == nil {
		ids = []string{}
	}

	respondJSON(w, http.StatusOK, RecommendResponse{
		MovieID:         movieID,
		Recommendations: ids,
	})
}

// parseK returns the requested k, or 0 (the engine default) when absent or
// not a positive integer. The engine clamps values above its maximum.
func parseK(s string) int {
	if s == "" {
		return 0
	}
	k, err := strconv.Atoi(s)
	if err != nil || k < 1 {
		return 0
	}
	return k
}
