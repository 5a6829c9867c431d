// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateEmbedding(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates database configuration
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be non-negative")
	}
	return nil
}

var validEmbeddingProviders = map[string]bool{
	EmbeddingProviderOpenAI: true,
	EmbeddingProviderHash:   true,
	EmbeddingProviderNone:   true,
}

var validEmbeddingStores = map[string]bool{
	EmbeddingStoreDuckDB: true,
	EmbeddingStoreBadger: true,
	EmbeddingStoreRedis:  true,
}

// validateEmbedding validates the embedding provider and store configuration
func (c *Config) validateEmbedding() error {
	e := &c.Embedding
	if !validEmbeddingProviders[e.Provider] {
		return fmt.Errorf("EMBEDDING_PROVIDER must be one of: openai, hash, none")
	}
	if !validEmbeddingStores[e.Store] {
		return fmt.Errorf("EMBEDDING_STORE must be one of: duckdb, badger, redis")
	}

	switch e.Provider {
	case EmbeddingProviderOpenAI:
		if err := validateHTTPURL(e.BaseURL, "EMBEDDING_BASE_URL"); err != nil {
			return err
		}
		if e.APIKey == "" {
			return fmt.Errorf("EMBEDDING_API_KEY is required when EMBEDDING_PROVIDER=openai")
		}
		if e.Model == "" {
			return fmt.Errorf("EMBEDDING_MODEL is required when EMBEDDING_PROVIDER=openai")
		}
	case EmbeddingProviderHash:
		if e.Dimensions < 1 {
			return fmt.Errorf("EMBEDDING_DIMENSIONS must be positive for the hash provider")
		}
	}

	if e.Provider != EmbeddingProviderNone {
		if e.Timeout <= 0 {
			return fmt.Errorf("EMBEDDING_TIMEOUT must be positive")
		}
		if e.RateLimit < 0 {
			return fmt.Errorf("EMBEDDING_RATE_LIMIT must be non-negative")
		}
		if e.RateLimit > 0 && e.RateBurst < 1 {
			return fmt.Errorf("EMBEDDING_RATE_BURST must be positive when a rate limit is set")
		}
		if e.Breaker.FailureThreshold < 1 {
			return fmt.Errorf("embedding.breaker.failure_threshold must be positive")
		}
	}

	switch e.Store {
	case EmbeddingStoreBadger:
		if e.BadgerPath == "" {
			return fmt.Errorf("EMBEDDING_BADGER_PATH is required when EMBEDDING_STORE=badger")
		}
	case EmbeddingStoreRedis:
		if e.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when EMBEDDING_STORE=redis")
		}
		if e.RedisTTL < 0 {
			return fmt.Errorf("EMBEDDING_REDIS_TTL must be non-negative")
		}
	}

	if e.LRUSize < 0 {
		return fmt.Errorf("EMBEDDING_LRU_SIZE must be non-negative")
	}
	return nil
}

// validateRecommend validates the ranking engine configuration.
func (c *Config) validateRecommend() error {
	if err := c.Recommend.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("recommend.%w", err)
	}
	if c.Recommend.RefreshInterval < 0 {
		return fmt.Errorf("recommend.refresh_interval must be non-negative, got %v", c.Recommend.RefreshInterval)
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

// validateSecurity validates rate limiting bounds.
func (c *Config) validateSecurity() error {
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

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
