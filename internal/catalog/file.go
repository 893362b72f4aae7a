// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package catalog

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/moviesim/internal/recommend"
)

// FileSource reads the corpus from a JSON array of items:
//
//	[{"id":"1","title":"Heat","overview":"...","genres":"Action Crime","cast_crew":"Al Pacino"}]
//
// The file is re-read on every call so edits are picked up by the next run.
type FileSource struct {
	path string
}

// NewFileSource creates a file-backed source.
func NewFileSource(path string) (*FileSource, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog file path is required")
	}
	return &FileSource{path: path}, nil
}

// Items implements recommend.Source.
func (s *FileSource) Items(ctx context.Context) ([]recommend.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var items []recommend.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode catalog file: %w", err)
	}

	for i := range items {
		items[i].ID = strings.TrimSpace(items[i].ID)
		if items[i].ID == "" {
			return nil, fmt.Errorf("catalog item %d has no id", i)
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return lessID(items[i].ID, items[j].ID)
	})

	return items, nil
}

// lessID orders numeric IDs numerically and everything else lexically,
// matching ORDER BY on an integer key.
func lessID(a, b string) bool {
	if isDigits(a) && isDigits(b) {
		a = strings.TrimLeft(a, "0")
		b = strings.TrimLeft(b, "0")
		if len(a) != len(b) {
			return len(a) < len(b)
		}
	}
	return a < b
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
