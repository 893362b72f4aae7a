// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package services provides suture.Service wrappers for moviesim components.
//
//   - HTTPServerService: net/http server with graceful shutdown
//   - TrainService: periodic retraining on a ticker
//
// Every wrapper implements fmt.Stringer so suture event logs name it.
package services
