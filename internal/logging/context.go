// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type idsKey struct{}

// traceIDs travels as one context value so adding an ID copies a small
// struct instead of growing the context chain.
type traceIDs struct {
	request     string
	correlation string
}

func idsFrom(ctx context.Context) traceIDs {
	ids, _ := ctx.Value(idsKey{}).(traceIDs)
	return ids
}

// GenerateCorrelationID returns the first 8 characters of a random UUID.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID returns a random UUID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns ctx carrying the correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	ids := idsFrom(ctx)
	ids.correlation = id
	return context.WithValue(ctx, idsKey{}, ids)
}

// CorrelationIDFromContext returns the correlation ID, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).correlation
}

// ContextWithRequestID returns ctx carrying the request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	ids := idsFrom(ctx)
	ids.request = id
	return context.WithValue(ctx, idsKey{}, ids)
}

// RequestIDFromContext returns the request ID, or "".
func RequestIDFromContext(ctx context.Context) string {
	return idsFrom(ctx).request
}

// ContextWithLogger attaches logger using zerolog's own context slot, so
// zerolog.Ctx sees it too.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// LoggerFromContext returns the attached logger, or the global logger when
// none is attached.
func LoggerFromContext(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return Logger()
}

// Ctx returns the context logger with request_id and correlation_id added.
//
//	logging.Ctx(r.Context()).Info().Str("movie_id", id).Msg("recommend")
func Ctx(ctx context.Context) *zerolog.Logger {
	ids := idsFrom(ctx)
	zc := LoggerFromContext(ctx).With()
	if ids.correlation != "" {
		zc = zc.Str("correlation_id", ids.correlation)
	}
	if ids.request != "" {
		zc = zc.Str("request_id", ids.request)
	}
	l := zc.Logger()
	return &l
}

// WithComponent creates a child of the global logger with a component field.
func WithComponent(component string) zerolog.Logger {
	return With().Str("component", component).Logger()
}
