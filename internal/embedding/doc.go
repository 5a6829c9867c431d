// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package embedding provides the embedding providers and vector stores used by
the recommendation engine's EmbeddingCache.

# Providers

  - OpenAIProvider: OpenAI-compatible HTTP client (POST {base_url}/embeddings)
  - HashProvider: local feature-hashing embedder, deterministic and offline
  - GuardedProvider: wraps any provider with a token-bucket rate limiter
    (golang.org/x/time/rate) and a circuit breaker (sony/gobreaker)

When the breaker is open, calls fail immediately with gobreaker.ErrOpenState.
The EmbeddingCache treats any provider error as "no semantic signal", so an
outage costs one fast failure per candidate instead of a timeout.

# Stores

  - BadgerStore: embedded persistent key-value store
  - RedisStore: shared store for several server instances, optional TTL
  - CachedStore: read-through in-memory LRU in front of any store

The DuckDB store lives in internal/database.

# Wiring

NewProvider and NewStore build the configured implementations from
config.EmbeddingConfig:

	provider, err := embedding.NewProvider(&cfg.Embedding)
	store, closer, err := embedding.NewStore(&cfg.Embedding, db)
	cache := recommend.NewEmbeddingCache(provider, store, logger)
*/
package embedding
