// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestGenerateIDs(t *testing.T) {
	if got := GenerateCorrelationID(); len(got) != 8 {
		t.Errorf("GenerateCorrelationID() length = %d, want 8", len(got))
	}
	a, b := GenerateRequestID(), GenerateRequestID()
	if len(a) != 36 || a == b {
		t.Errorf("GenerateRequestID() = %q, %q", a, b)
	}
}

func TestContextIDs(t *testing.T) {
	ctx := context.Background()
	if CorrelationIDFromContext(ctx) != "" || RequestIDFromContext(ctx) != "" {
		t.Error("empty context should carry no IDs")
	}

	ctx = ContextWithCorrelationID(ctx, "corr1234")
	ctx = ContextWithRequestID(ctx, "req-1")

	if got := CorrelationIDFromContext(ctx); got != "corr1234" {
		t.Errorf("CorrelationIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
}

func TestCtx_AddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))
	ctx = ContextWithCorrelationID(ctx, "corr1234")
	ctx = ContextWithRequestID(ctx, "req-1")

	Ctx(ctx).Info().Msg("training started")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m["correlation_id"] != "corr1234" || m["request_id"] != "req-1" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestLoggerFromContext_FallsBackToGlobal(t *testing.T) {
	buf := captureGlobal(t, Config{Level: "info"})

	l := LoggerFromContext(context.Background())
	l.Info().Msg("global")

	if !strings.Contains(buf.String(), "global") {
		t.Errorf("expected global logger output, got %q", buf.String())
	}
}

func TestContextIDs_Independent(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	child := ContextWithCorrelationID(ctx, "corr1234")

	if CorrelationIDFromContext(ctx) != "" {
		t.Error("setting the correlation id on a child must not leak to the parent")
	}
	if RequestIDFromContext(child) != "req-1" {
		t.Error("child should keep the parent's request id")
	}
}

func TestContextWithLogger_VisibleToZerolog(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithLogger(context.Background(), NewTestLogger(&buf))

	zerolog.Ctx(ctx).Info().Msg("native")

	if !strings.Contains(buf.String(), "native") {
		t.Errorf("zerolog.Ctx did not find the attached logger: %q", buf.String())
	}
}
