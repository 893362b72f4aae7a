// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordTraining(t *testing.T) {
	before := testutil.ToFloat64(TrainingRuns.WithLabelValues("success"))
	busyBefore := testutil.ToFloat64(TrainingRuns.WithLabelValues("busy"))

	RecordTraining("success", 2*time.Second, 42)
	RecordTraining("busy", 0, 0)

	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("success")) - before; got != 1 {
		t.Errorf("success runs delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(TrainingRuns.WithLabelValues("busy")) - busyBefore; got != 1 {
		t.Errorf("busy runs delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(TrainingItems); got != 42 {
		t.Errorf("TrainingItems = %v, want 42", got)
	}
	if testutil.ToFloat64(TrainingLastSuccess) == 0 {
		t.Error("TrainingLastSuccess not set")
	}
}

func TestRecordTraining_FailureKeepsItems(t *testing.T) {
	RecordTraining("success", time.Second, 7)
	RecordTraining("embedding", time.Second, 0)

	if got := testutil.ToFloat64(TrainingItems); got != 7 {
		t.Errorf("TrainingItems = %v after failed run, want 7", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	kinds := []string{"ok", "artifacts_missing", "item_not_found"}

	for _, kind := range kinds {
		t.Run(kind, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendRequests.WithLabelValues(kind))
			RecordRecommendation(kind, time.Millisecond)
			if got := testutil.ToFloat64(RecommendRequests.WithLabelValues(kind)) - before; got != 1 {
				t.Errorf("delta = %v, want 1", got)
			}
		})
	}
}

func TestRecordEmbeddingRequest(t *testing.T) {
	textsBefore := testutil.ToFloat64(EmbeddingTexts.WithLabelValues("test"))
	errorsBefore := testutil.ToFloat64(EmbeddingErrors.WithLabelValues("test", "status"))

	RecordEmbeddingRequest("test", 16, 10*time.Millisecond, "")
	RecordEmbeddingRequest("test", 16, 10*time.Millisecond, "status")

	if got := testutil.ToFloat64(EmbeddingTexts.WithLabelValues("test")) - textsBefore; got != 16 {
		t.Errorf("texts delta = %v, want 16", got)
	}
	if got := testutil.ToFloat64(EmbeddingErrors.WithLabelValues("test", "status")) - errorsBefore; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("memory"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("memory"))

	RecordCacheLookup("memory", true)
	RecordCacheLookup("memory", false)
	RecordCacheLookup("memory", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("memory")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("memory")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

// TestTrackActiveRequest_Concurrent checks the gauge returns to its starting value
func TestTrackActiveRequest_Concurrent(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			RecordAPIRequest("GET", "/", "200", time.Millisecond)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("APIActiveRequests = %v, want %v", got, start)
	}
}

// TestMetricGathering tests that metrics can be gathered using testutil
func TestMetricGathering(t *testing.T) {
	RecordIndexSearch(time.Millisecond)
	RecordTrainingStage("embed", time.Millisecond)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Logf("Lint errors (may be expected): %v", err)
	}
	for _, p := range problems {
		t.Logf("Metric lint problem: %s", p.Text)
	}
}
