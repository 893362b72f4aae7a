// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

/*
Package supervisor runs the long-lived parts of moviesim under a suture v4
supervisor tree.

	moviesim (root)
	├── data-layer
	│   └── training-scheduler   periodic retraining (optional)
	└── api-layer
	    └── http-server          chi router behind net/http

Supervisor events (service panics, restarts, backoff) are logged through
sutureslog, which takes a *slog.Logger. Pass logging.NewSlogLogger() so the
events end up in the same zerolog stream as everything else.

Service wrappers live in the services subpackage.
*/
package supervisor
