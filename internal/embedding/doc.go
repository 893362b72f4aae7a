// Moviesim - Movie Similarity Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviesim

/*
Package embedding turns movie text into dense vectors.

The Embedder interface is the only thing the recommendation engine depends on.
Two families of implementation are provided:

  - HashingEmbedder: in-process signed feature hashing over word tokens
    (xxhash). Deterministic, dependency-free at runtime, used by default and
    in tests.
  - HTTPEmbedder: a client for remote sentence-embedding services speaking
    either the OpenAI /embeddings format or the text-embeddings-inference
    /embed format.

The HTTP client splits a corpus into batches, throttles with a token bucket
limiter, retries 429 and 5xx responses with exponential backoff (honoring
Retry-After), and wraps every batch in a circuit breaker so a dead provider
fails a training run quickly instead of hammering it.

Vectors are returned unnormalized; normalization is the caller's job.
*/
package embedding
