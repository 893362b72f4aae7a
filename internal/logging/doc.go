// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

// Package logging provides centralized zerolog-based logging for Moviesim.
//
// A process-global logger is configured once with Init and reached through
// level helpers:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("HTTP server listening")
//
// Components take a zerolog.Logger by value and derive their own scope:
//
//	logger := base.With().Str("component", "training").Logger()
//
// Request handlers use Ctx, which adds request_id and correlation_id from the
// context set by the request ID middleware:
//
//	logging.Ctx(r.Context()).Warn().Str("movie_id", id).Msg("unknown movie")
//
// SlogHandler adapts zerolog for slog consumers such as sutureslog. RedactURL
// and RedactSecret keep database passwords and API keys out of startup logs.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging
