// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

/*
Package config provides centralized configuration management for Studyfeed.

# Configuration Sources

Configuration is loaded in three layers, later layers overriding earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/studyfeed/config.yaml, /etc/studyfeed/config.yml
 3. Environment variables

# Configuration Structure

  - ServerConfig: HTTP server settings (host, port, timeouts)
  - DatabaseConfig: DuckDB path and tuning
  - LoggingConfig: zerolog level, format and caller
  - EmbeddingConfig: embedding provider, rate limit, circuit breaker and vector store
  - RecommendConfig: lambda, K bounds, missing-embedding policy, per-kind weights
    and eligibility expressions, periodic refresh
  - SecurityConfig: CORS origins and request rate limiting

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8460)
  - HTTP_TIMEOUT: Request timeout (default: 30s)

Database:
  - DUCKDB_PATH: Database file path (default: /data/studyfeed.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)

Embedding:
  - EMBEDDING_PROVIDER: openai, hash or none (default: hash)
  - EMBEDDING_BASE_URL, EMBEDDING_API_KEY (or OPENAI_API_KEY), EMBEDDING_MODEL
  - EMBEDDING_STORE: duckdb, badger or redis (default: duckdb)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB

Recommendation engine:
  - RECOMMEND_LAMBDA: negative profile discount (default: 0.5)
  - RECOMMEND_DEFAULT_K, RECOMMEND_MAX_K
  - RECOMMEND_MISSING_EMBEDDING: omit or default_mid (default: omit)
  - RECOMMEND_REFRESH_INTERVAL: periodic feature refresh (default: disabled)
  - RECOMMEND_REFRESH_ON_STARTUP: refresh once when the refresh service starts
  - RECOMMEND_PAPER_ELIGIBILITY, RECOMMEND_VIDEO_ELIGIBILITY: CEL expressions

Weight tables are set in the YAML file:

	recommend:
	  video:
	    weights:
	      emb: 0.55
	      duration: 0.15
	      popularity: 0.10
	      engagement: 0.10
	      freshness: 0.05
	      type: 0.05

# Validation

Load returns a descriptive error for invalid values, for example
"recommend.lambda must be non-negative, got -1.000000". Weights are only
checked for non-negativity and for belonging to the kind's categories.

# Thread Safety

Config is immutable after Load and safe for concurrent reads.
*/
package config
