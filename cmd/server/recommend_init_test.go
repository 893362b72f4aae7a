// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviesim/internal/api"
	"github.com/tomtom215/moviesim/internal/config"
)

const testCatalog = `[
  {"id":"1","title":"Heat","overview":"A crew of professional thieves and the detective chasing them.","genres":"Action Crime","cast_crew":"Al Pacino Robert De Niro Michael Mann"},
  {"id":"2","title":"Collateral","overview":"A cab driver is held hostage by a contract killer in Los Angeles.","genres":"Crime Thriller","cast_crew":"Tom Cruise Jamie Foxx Michael Mann"},
  {"id":"3","title":"Toy Story","overview":"Toys come to life when their owner is away.","genres":"Animation Family","cast_crew":"Tom Hanks Tim Allen John Lasseter"},
  {"id":"4","title":"Finding Nemo","overview":"A clownfish searches the ocean for his son.","genres":"Animation Family","cast_crew":"Albert Brooks Ellen DeGeneres Andrew Stanton"}
]`

func loadTestConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	dir := t.TempDir()

	catalogPath := filepath.Join(dir, "movies.json")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(config.ConfigPathEnvVar, filepath.Join(dir, "absent.yaml"))
	t.Setenv(config.DotEnvPathEnvVar, filepath.Join(dir, "absent.env"))
	saved := config.DefaultConfigPaths
	config.DefaultConfigPaths = nil
	t.Cleanup(func() { config.DefaultConfigPaths = saved })

	t.Setenv("CATALOG_SOURCE", "file")
	t.Setenv("CATALOG_FILE", catalogPath)
	t.Setenv("ARTIFACTS_DIR", filepath.Join(dir, "artifacts"))
	t.Setenv("EMBEDDING_PROVIDER", "hashing")
	t.Setenv("EMBEDDING_DIMENSION", "256")
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf: %v", err)
	}
	return cfg
}

func TestInitRecommend_TrainsWhenMissing(t *testing.T) {
	cfg := loadTestConfig(t, nil)
	ctx := context.Background()

	comps, err := initRecommend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("initRecommend: %v", err)
	}
	defer comps.Close()

	if comps.Engine.HasArtifacts() {
		t.Fatal("fresh artifact directory should have no generation")
	}

	trainIfMissing(ctx, comps.Engine, cfg, zerolog.Nop())

	if !comps.Engine.HasArtifacts() {
		t.Fatal("startup training should commit a generation")
	}
	if st := comps.Engine.Status(); st.Items != 4 {
		t.Errorf("Items = %d, want 4", st.Items)
	}

	ids := comps.Engine.Recommend(ctx, "3", 2)
	if len(ids) != 2 {
		t.Fatalf("Recommend returned %v", ids)
	}
	for _, id := range ids {
		if id == "3" {
			t.Error("movie must not recommend itself")
		}
	}
}

func TestTrainIfMissing_SkipsExisting(t *testing.T) {
	cfg := loadTestConfig(t, nil)
	ctx := context.Background()

	first, err := initRecommend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	trainIfMissing(ctx, first.Engine, cfg, zerolog.Nop())
	genID := first.Engine.Status().GenerationID
	first.Close()

	second, err := initRecommend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	trainIfMissing(ctx, second.Engine, cfg, zerolog.Nop())
	if got := second.Engine.Status(); got.Runs != 0 {
		t.Errorf("restart retrained: runs = %d", got.Runs)
	}
	if !second.Engine.HasArtifacts() {
		t.Fatal("committed generation should survive a restart")
	}
	if ids := second.Engine.Recommend(ctx, "1", 1); len(ids) != 1 {
		t.Errorf("Recommend after restart = %v", ids)
	}
	if got := second.Engine.Status().GenerationID; got != genID {
		t.Errorf("generation = %q, want %q", got, genID)
	}
}

func TestTrainIfMissing_Disabled(t *testing.T) {
	cfg := loadTestConfig(t, map[string]string{"RECOMMEND_TRAIN_ON_STARTUP_IF_MISSING": "false"})
	ctx := context.Background()

	comps, err := initRecommend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer comps.Close()

	trainIfMissing(ctx, comps.Engine, cfg, zerolog.Nop())
	if comps.Engine.HasArtifacts() {
		t.Error("training ran although disabled")
	}
	if ids := comps.Engine.Recommend(ctx, "1", 3); len(ids) != 0 {
		t.Errorf("Recommend without artifacts = %v, want empty", ids)
	}
}

func TestTrainIfMissing_FailureKeepsServing(t *testing.T) {
	cfg := loadTestConfig(t, nil)
	if err := os.WriteFile(cfg.Catalog.FilePath, []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	comps, err := initRecommend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer comps.Close()

	trainIfMissing(ctx, comps.Engine, cfg, zerolog.Nop())

	st := comps.Engine.Status()
	if st.LastError == "" {
		t.Error("failed run should be reported in status")
	}
	if comps.Engine.HasArtifacts() {
		t.Error("failed run must not commit")
	}
}

func TestInitRecommend_WithBadgerCache(t *testing.T) {
	cfg := loadTestConfig(t, map[string]string{
		"CACHE_ENABLED": "true",
		"CACHE_BACKEND": "badger",
		"CACHE_PATH":    filepath.Join(t.TempDir(), "cache"),
	})
	ctx := context.Background()

	comps, err := initRecommend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("initRecommend: %v", err)
	}
	defer comps.Close()

	trainIfMissing(ctx, comps.Engine, cfg, zerolog.Nop())

	first := comps.Engine.Recommend(ctx, "1", 3)
	second := comps.Engine.Recommend(ctx, "1", 3)
	if strings.Join(first, ",") != strings.Join(second, ",") || len(first) != 3 {
		t.Errorf("cached result differs: %v vs %v", first, second)
	}
}

func TestInitRecommend_BadCatalogSource(t *testing.T) {
	cfg := loadTestConfig(t, nil)
	cfg.Catalog.Source = "ftp"

	if _, err := initRecommend(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown catalog source")
	}
}

func TestRouterEndToEnd(t *testing.T) {
	cfg := loadTestConfig(t, nil)
	ctx := context.Background()

	comps, err := initRecommend(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer comps.Close()
	trainIfMissing(ctx, comps.Engine, cfg, zerolog.Nop())

	srv := httptest.NewServer(api.NewRouter(api.NewHandler(comps.Engine), api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins, cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow, true,
	)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/recommend/4?k=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body api.RecommendResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.MovieID != "4" || len(body.Recommendations) != 1 {
		t.Fatalf("body = %+v", body)
	}
	if body.Recommendations[0] != "3" {
		t.Errorf("nearest to Finding Nemo = %q, want Toy Story (3)", body.Recommendations[0])
	}
}
