// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

// Package main is the entry point for the Studyfeed server.
//
// Studyfeed ranks paper and video candidates for research projects with a
// feature-based engine: each item is reduced to categorical features
// (embedding similarity, duration, popularity, publication year, authors,
// ...), each project to the features of the items it liked and disliked,
// and candidates are scored by weighted Jaccard overlap.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional YAML file, environment (Koanf v2)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Database: DuckDB, schema migrations applied on open
//  4. Embeddings: provider (openai, hash or none) behind a rate limiter
//     and circuit breaker, vector store (duckdb, badger or redis) behind
//     an optional LRU
//  5. Engines: one paper and one video recommender
//  6. HTTP Server: chi router under the suture supervisor tree
//  7. Feature refresh: optional periodic re-extraction
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains
// in-flight requests within HTTP_SHUTDOWN_TIMEOUT, then the embedding store
// and the database are closed.
//
// # Example Usage
//
//	export DUCKDB_PATH=./data/studyfeed.duckdb
//	export EMBEDDING_PROVIDER=openai
//	export EMBEDDING_API_KEY=sk-...
//	./studyfeed
//
// Offline, with deterministic hash embeddings:
//
//	EMBEDDING_PROVIDER=hash ./studyfeed
package main
