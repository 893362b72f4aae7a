// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moviesim/internal/metrics"
)

const (
	defaultBatchSize  = 64
	defaultTimeout    = 30 * time.Second
	maxResponseBytes  = 64 << 20
	maxRetryAfterWait = 30 * time.Second
)

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("embedding provider returned %d: %s", e.Code, e.Body)
}

// retryable reports whether the status is worth retrying.
func (e *StatusError) retryable() bool {
	return e.Code == http.StatusTooManyRequests || e.Code >= 500
}

// HTTPEmbedder calls a remote embedding service. It supports the OpenAI
// /embeddings wire format and the Hugging Face text-embeddings-inference
// /embed format. Requests are batched, throttled, retried on 429/5xx, and
// guarded by a circuit breaker.
type HTTPEmbedder struct {
	provider   string
	endpoint   string
	apiKey     string
	model      string
	batchSize  int
	maxRetries int

	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[][]float32]
	logger  zerolog.Logger

	// dim is the expected dimension. 0 until learned from the first response
	// when not configured.
	dim atomic.Int64

	// sleep is replaceable in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewHTTPEmbedder creates a remote embedder from cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPEmbedder(cfg Config, logger zerolog.Logger) (*HTTPEmbedder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("embedding base URL is required for provider %q", cfg.Provider)
	}

	var endpoint string
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.Model == "" {
			return nil, fmt.Errorf("embedding model is required for provider %q", cfg.Provider)
		}
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/embeddings"
	case ProviderTEI:
		endpoint = strings.TrimRight(cfg.BaseURL, "/") + "/embed"
	default:
		return nil, fmt.Errorf("provider %q is not an HTTP provider", cfg.Provider)
	}

	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = time.Minute
	}

	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	model := cfg.Model
	if model == "" {
		model = cfg.Provider
	}

	e := &HTTPEmbedder{
		provider:   cfg.Provider,
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		model:      model,
		batchSize:  cfg.BatchSize,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.With().Str("component", "embedding").Str("provider", cfg.Provider).Logger(),
		sleep:      sleepContext,
	}
	e.dim.Store(int64(cfg.Dimension))

	cbName := "embedding-" + cfg.Provider
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	threshold := cfg.BreakerFailures
	e.cb = gobreaker.NewCircuitBreaker[[][]float32](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			e.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("embedding circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return e, nil
}

// Dimension implements Embedder.
func (e *HTTPEmbedder) Dimension() int {
	return int(e.dim.Load())
}

// Model implements Embedder.
func (e *HTTPEmbedder) Model() string {
	return e.model
}

// Embed implements Embedder. Texts are sent in BatchSize chunks and the
// results reassembled in input order.
func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}

		vectors, err := e.cb.Execute(func() ([][]float32, error) {
			return e.embedWithRetry(ctx, batch)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				metrics.CircuitBreakerRequests.WithLabelValues(e.cb.Name(), "rejected").Inc()
				metrics.RecordEmbeddingRequest(e.provider, len(batch), 0, "breaker_open")
			} else {
				metrics.CircuitBreakerRequests.WithLabelValues(e.cb.Name(), "failure").Inc()
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(e.cb.Name()).Set(float64(e.cb.Counts().ConsecutiveFailures))
			}
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(e.cb.Name(), "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(e.cb.Name()).Set(0)

		if err := e.checkShape(batch, vectors); err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		out = append(out, vectors...)
	}

	return out, nil
}

func (e *HTTPEmbedder) embedWithRetry(ctx context.Context, batch []string) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryDelay(attempt - 1)
			if ra, ok := retryAfter(lastErr); ok {
				delay = ra
			}
			e.logger.Debug().Int("attempt", attempt).Dur("delay", delay).Err(lastErr).Msg("retrying embedding request")
			if err := e.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		vectors, err := e.post(ctx, batch)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		var se *StatusError
		switch {
		case ctx.Err() != nil:
			return nil, ctx.Err()
		case errors.As(err, &se) && !se.retryable():
			return nil, err
		}
	}
	return nil, lastErr
}

// retryAfterError carries a parsed Retry-After hint.
type retryAfterError struct {
	*StatusError
	after time.Duration
}

func (e *retryAfterError) Unwrap() error { return e.StatusError }

func retryAfter(err error) (time.Duration, bool) {
	var ra *retryAfterError
	if errors.As(err, &ra) && ra.after > 0 {
		return ra.after, true
	}
	return 0, false
}

func (e *HTTPEmbedder) post(ctx context.Context, batch []string) ([][]float32, error) {
	start := time.Now()

	body, err := e.encodeRequest(batch)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		metrics.RecordEmbeddingRequest(e.provider, len(batch), time.Since(start), "transport")
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // response body close

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.RecordEmbeddingRequest(e.provider, len(batch), time.Since(start), "transport")
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordEmbeddingRequest(e.provider, len(batch), time.Since(start), "status")
		se := &StatusError{Code: resp.StatusCode, Body: truncate(string(payload), 200)}
		if d, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok {
			return nil, &retryAfterError{StatusError: se, after: d}
		}
		return nil, se
	}

	vectors, err := e.decodeResponse(payload)
	if err != nil {
		metrics.RecordEmbeddingRequest(e.provider, len(batch), time.Since(start), "decode")
		return nil, fmt.Errorf("decode response: %w", err)
	}

	metrics.RecordEmbeddingRequest(e.provider, len(batch), time.Since(start), "")
	return vectors, nil
}

type openAIRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type openAIResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type teiRequest struct {
	Inputs    []string `json:"inputs"`
	Normalize bool     `json:"normalize"`
	Truncate  bool     `json:"truncate"`
}

func (e *HTTPEmbedder) encodeRequest(batch []string) ([]byte, error) {
	if e.provider == ProviderTEI {
		return json.Marshal(teiRequest{Inputs: batch, Normalize: false, Truncate: true})
	}
	return json.Marshal(openAIRequest{Input: batch, Model: e.model})
}

func (e *HTTPEmbedder) decodeResponse(payload []byte) ([][]float32, error) {
	if e.provider == ProviderTEI {
		var out [][]float32
		if err := json.Unmarshal(payload, &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	var resp openAIResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, err
	}
	// Providers are allowed to return data out of order; index is authoritative.
	sort.SliceStable(resp.Data, func(i, j int) bool {
		return resp.Data[i].Index < resp.Data[j].Index
	})
	out := make([][]float32, len(resp.Data))
	for i := range resp.Data {
		out[i] = resp.Data[i].Embedding
	}
	return out, nil
}

// checkShape enforces one vector per text and a constant dimension.
func (e *HTTPEmbedder) checkShape(batch []string, vectors [][]float32) error {
	if len(vectors) != len(batch) {
		return fmt.Errorf("provider returned %d vectors for %d texts", len(vectors), len(batch))
	}
	for i, v := range vectors {
		if len(v) == 0 {
			return fmt.Errorf("provider returned empty vector at %d", i)
		}
		want := e.dim.Load()
		if want == 0 {
			e.dim.CompareAndSwap(0, int64(len(v)))
			want = e.dim.Load()
		}
		if int64(len(v)) != want {
			return fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), want)
		}
	}
	return nil
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 5 {
		attempt = 5
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}

func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		d := time.Duration(secs) * time.Second
		if d > maxRetryAfterWait {
			d = maxRetryAfterWait
		}
		return d, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := time.Until(t)
		if d < 0 {
			d = 0
		}
		if d > maxRetryAfterWait {
			d = maxRetryAfterWait
		}
		return d, true
	}
	return 0, false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
