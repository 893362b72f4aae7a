// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/tomtom215/moviesim/internal/validation"
)

// Validate checks struct tags first, then rules that span fields.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateCatalog(); err != nil {
		return err
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validateCatalog checks that the selected source has what it needs.
func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when CATALOG_SOURCE=postgres")
		}
		u, err := url.Parse(c.Database.URL)
		if err != nil {
			return fmt.Errorf("DATABASE_URL is invalid: %w", err)
		}
		if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			return fmt.Errorf("DATABASE_URL must use the postgres:// or postgresql:// scheme, got %q", u.Scheme)
		}
	case "file":
		if c.Catalog.FilePath == "" {
			return fmt.Errorf("CATALOG_FILE is required when CATALOG_SOURCE=file")
		}
	}
	return nil
}

// validateEmbedding checks remote provider settings.
func (c *Config) validateEmbedding() error {
	switch c.Embedding.Provider {
	case "openai":
		if c.Embedding.BaseURL == "" {
			return fmt.Errorf("EMBEDDING_BASE_URL is required when EMBEDDING_PROVIDER=openai")
		}
		if c.Embedding.Model == "" {
			return fmt.Errorf("EMBEDDING_MODEL is required when EMBEDDING_PROVIDER=openai")
		}
	case "tei":
		if c.Embedding.BaseURL == "" {
			return fmt.Errorf("EMBEDDING_BASE_URL is required when EMBEDDING_PROVIDER=tei")
		}
	}
	return nil
}

// validateRecommend checks that the default neighbor count fits under the cap.
func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("RECOMMEND_DEFAULT_K (%d) must not exceed RECOMMEND_MAX_K (%d)",
			c.Recommend.DefaultK, c.Recommend.MaxK)
	}
	return nil
}

// validateCache checks that a persistent cache has somewhere to live.
func (c *Config) validateCache() error {
	if c.Cache.Enabled && c.Cache.Backend == "badger" && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required when CACHE_BACKEND=badger")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if wildcard CORS is configured in
// production, which should be logged at startup.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}
