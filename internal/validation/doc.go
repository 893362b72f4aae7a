// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by configuration loading and the
// HTTP layer. Field errors are translated into readable messages keyed by the
// struct namespace (for example "Config.Embedding.BatchSize") and returned
// together as Errors.
//
// # Custom validators
//
//   - movieid: non-blank, printable, at most MaxMovieIDLength bytes, and free of
//     path separators so the value is usable as a cache key and URL segment.
//
// # Usage
//
//	type recommendQuery struct {
//	    MovieID string `validate:"required,movieid"`
//	    K       int    `validate:"min=0"`
//	}
//
//	if err := validation.ValidateStruct(&q); err != nil {
//	    var fields validation.Errors
//	    if errors.As(err, &fields) {
//	        // fields[i].Field, fields[i].Tag, fields[i].Message
//	    }
//	    return err
//	}
package validation
