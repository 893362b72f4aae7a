// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moviesim/internal/recommend/index"
)

var (
	// ErrArtifactsMissing is returned when no committed generation exists,
	// or when either file of the serving generation is absent.
	ErrArtifactsMissing = errors.New("storage: artifacts missing")

	// ErrGenerationMismatch is returned when an index and sidecar do not
	// belong to the same generation.
	ErrGenerationMismatch = errors.New("storage: index and sidecar do not match")
)

const (
	currentFile    = "CURRENT"
	generationsDir = "generations"
	stagingPrefix  = ".staging-"
)

// Config holds artifact locations.
type Config struct {
	// Dir is the artifact root directory.
	Dir string

	// IndexFile is the index file name inside a generation directory.
	IndexFile string

	// SidecarFile is the sidecar file name inside a generation directory.
	SidecarFile string

	// KeepGenerations is how many generations survive pruning, including
	// the serving one. Values below 1 are treated as 1.
	KeepGenerations int
}

// DefaultConfig returns the default artifact layout rooted at dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:             dir,
		IndexFile:       "movie_index.bin",
		SidecarFile:     "movie_metadata.json",
		KeepGenerations: 3,
	}
}

// Store manages persisted generations on the local filesystem.
type Store struct {
	cfg    Config
	logger zerolog.Logger

	// mu serializes commits and pruning; loads do not take it.
	mu sync.Mutex
}

// NewStore creates a store rooted at cfg.Dir, creating directories as needed
// and removing staging directories left behind by interrupted commits.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(cfg Config, logger zerolog.Logger) (*Store, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	if cfg.IndexFile == "" || cfg.SidecarFile == "" {
		return nil, fmt.Errorf("index and sidecar file names are required")
	}
	if cfg.IndexFile == cfg.SidecarFile {
		return nil, fmt.Errorf("index and sidecar file names must differ")
	}
	if cfg.KeepGenerations < 1 {
		cfg.KeepGenerations = 1
	}

	if err := os.MkdirAll(filepath.Join(cfg.Dir, generationsDir), 0o750); err != nil { //nolint:gosec // 0750 is acceptable for artifact storage
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}

	s := &Store{
		cfg:    cfg,
		logger: logger.With().Str("component", "artifact-store").Logger(),
	}

	if err := s.removeStaging(); err != nil {
		return nil, fmt.Errorf("clean staging directories: %w", err)
	}

	return s, nil
}

// Dir returns the artifact root directory.
func (s *Store) Dir() string {
	return s.cfg.Dir
}

// CurrentID returns the serving generation ID.
func (s *Store) CurrentID() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.Dir, currentFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrArtifactsMissing
	}
	if err != nil {
		return "", fmt.Errorf("read current pointer: %w", err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", ErrArtifactsMissing
	}
	if !validGenerationID(id) {
		return "", fmt.Errorf("current pointer names invalid generation %q", id)
	}

	return id, nil
}

// Exists reports whether a complete serving generation is on disk.
func (s *Store) Exists() bool {
	id, err := s.CurrentID()
	if err != nil {
		return false
	}
	for _, name := range []string{s.cfg.IndexFile, s.cfg.SidecarFile} {
		if _, err := os.Stat(filepath.Join(s.generationPath(id), name)); err != nil {
			return false
		}
	}
	return true
}

// Load reads the serving generation. Both files are read from the directory
// CURRENT names at the time of the call.
func (s *Store) Load(ctx context.Context) (*Generation, error) {
	id, err := s.CurrentID()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := s.generationPath(id)

	idx, header, err := s.readIndex(filepath.Join(dir, s.cfg.IndexFile))
	if err != nil {
		return nil, err
	}

	sc, err := s.readSidecar(filepath.Join(dir, s.cfg.SidecarFile))
	if err != nil {
		return nil, err
	}

	if header.GenerationID != id || sc.GenerationID != id {
		return nil, fmt.Errorf("%w: pointer %s, index %s, sidecar %s",
			ErrGenerationMismatch, id, header.GenerationID, sc.GenerationID)
	}

	return NewGeneration(idx, sc)
}

// Commit persists g and makes it the serving generation.
// On error the previously serving generation is left untouched.
func (s *Store) Commit(ctx context.Context, g *Generation) error {
	if g == nil || !validGenerationID(g.ID()) {
		return fmt.Errorf("commit: invalid generation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	root := filepath.Join(s.cfg.Dir, generationsDir)
	final := s.generationPath(g.ID())
	if _, err := os.Stat(final); err == nil {
		return fmt.Errorf("commit: generation %s already exists", g.ID())
	}

	staging, err := os.MkdirTemp(root, stagingPrefix)
	if err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = os.RemoveAll(staging) //nolint:errcheck // best-effort cleanup of failed commit
		}
	}()

	if err := writeFileSync(filepath.Join(staging, s.cfg.IndexFile), func(w io.Writer) error {
		return g.Index.Encode(w, g.ID())
	}); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writeFileSync(filepath.Join(staging, s.cfg.SidecarFile), func(w io.Writer) error {
		return json.NewEncoder(w).Encode(g.Sidecar)
	}); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}

	if err := syncDir(staging); err != nil {
		return fmt.Errorf("sync staging directory: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(staging, final); err != nil {
		return fmt.Errorf("publish generation directory: %w", err)
	}
	staging = final // cleanup now targets the published directory

	if err := syncDir(root); err != nil {
		return fmt.Errorf("sync generations directory: %w", err)
	}

	if err := s.writeCurrent(g.ID()); err != nil {
		return fmt.Errorf("switch current generation: %w", err)
	}
	committed = true

	s.logger.Info().
		Str("generation_id", g.ID()).
		Int("items", g.Len()).
		Int("dimension", g.Index.Dim()).
		Msg("committed generation")

	if err := s.pruneLocked(g.ID()); err != nil {
		s.logger.Warn().Err(err).Msg("failed to prune old generations")
	}

	return nil
}

// Generations lists generation IDs on disk, newest first.
func (s *Store) Generations() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.cfg.Dir, generationsDir))
	if err != nil {
		return nil, fmt.Errorf("read generations directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), stagingPrefix) {
			continue
		}
		if validGenerationID(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}

// Prune removes old generations, keeping the newest KeepGenerations and
// always keeping the serving one.
func (s *Store) Prune() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.CurrentID()
	if err != nil && !errors.Is(err, ErrArtifactsMissing) {
		return err
	}
	return s.pruneLocked(current)
}

func (s *Store) pruneLocked(current string) error {
	ids, err := s.Generations()
	if err != nil {
		return err
	}

	budget := s.cfg.KeepGenerations
	for _, id := range ids {
		if id == current {
			budget--
			break
		}
	}

	for _, id := range ids {
		if id == current {
			continue
		}
		if budget > 0 {
			budget--
			continue
		}
		if err := os.RemoveAll(s.generationPath(id)); err != nil {
			return fmt.Errorf("remove generation %s: %w", id, err)
		}
		s.logger.Debug().Str("generation_id", id).Msg("pruned generation")
	}

	return nil
}

func (s *Store) generationPath(id string) string {
	return filepath.Join(s.cfg.Dir, generationsDir, id)
}

func (s *Store) readIndex(path string) (*index.Flat, *index.Header, error) {
	f, err := os.Open(path) //nolint:gosec // path is built from configured directory and validated generation ID
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: %s", ErrArtifactsMissing, filepath.Base(path))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open index: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	idx, header, err := index.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, nil, fmt.Errorf("decode index: %w", err)
	}
	return idx, header, nil
}

func (s *Store) readSidecar(path string) (Sidecar, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is built from configured directory and validated generation ID
	if errors.Is(err, fs.ErrNotExist) {
		return Sidecar{}, fmt.Errorf("%w: %s", ErrArtifactsMissing, filepath.Base(path))
	}
	if err != nil {
		return Sidecar{}, fmt.Errorf("read sidecar: %w", err)
	}

	var sc Sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return Sidecar{}, fmt.Errorf("%w: decode sidecar: %v", index.ErrCorrupt, err)
	}
	return sc, nil
}

// writeCurrent atomically replaces the CURRENT pointer.
func (s *Store) writeCurrent(id string) error {
	tmp, err := os.CreateTemp(s.cfg.Dir, "."+currentFile+"-")
	if err != nil {
		return fmt.Errorf("create pointer temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(id + "\n"); err != nil {
		_ = tmp.Close()        //nolint:errcheck // already failing
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write pointer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()        //nolint:errcheck // already failing
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("sync pointer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close pointer: %w", err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.cfg.Dir, currentFile)); err != nil {
		_ = os.Remove(tmpName) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename pointer: %w", err)
	}

	// The switch has happened; a failed directory sync only weakens durability.
	if err := syncDir(s.cfg.Dir); err != nil {
		s.logger.Warn().Err(err).Msg("failed to sync artifact directory after pointer switch")
	}
	return nil
}

func (s *Store) removeStaging() error {
	root := filepath.Join(s.cfg.Dir, generationsDir)
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), stagingPrefix) {
			if err := os.RemoveAll(filepath.Join(root, entry.Name())); err != nil {
				return err
			}
			s.logger.Debug().Str("dir", entry.Name()).Msg("removed stale staging directory")
		}
	}
	return nil
}

// writeFileSync creates path, streams content through write, and fsyncs it.
func writeFileSync(path string, write func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640) //nolint:gosec // path is inside the staging directory
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return err
	}
	return f.Close()
}

func syncDir(path string) error {
	d, err := os.Open(path) //nolint:gosec // path is the configured artifact directory
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }() //nolint:errcheck // read-only handle
	return d.Sync()
}

// validGenerationID rejects anything that could escape the generations directory.
func validGenerationID(id string) bool {
	if id == "" || id == "." || id == ".." || strings.HasPrefix(id, ".") {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
