// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package config

import (
	"time"

	"github.com/tomtom215/studyfeed/internal/recommend"
)

// Config holds all application configuration.
//
// Configuration is loaded in layers: built-in defaults, an optional YAML
// file, then environment variables. See LoadWithKoanf.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Logging   LoggingConfig   `koanf:"logging"`
	Embedding EmbeddingConfig `koanf:"embedding"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Embedding providers.
const (
	EmbeddingProviderOpenAI = "openai"
	EmbeddingProviderHash   = "hash"
	EmbeddingProviderNone   = "none"
)

// Embedding stores.
const (
	EmbeddingStoreDuckDB = "duckdb"
	EmbeddingStoreBadger = "badger"
	EmbeddingStoreRedis  = "redis"
)

// EmbeddingConfig holds the embedding provider and cache settings.
//
// Environment Variables:
//   - EMBEDDING_PROVIDER: openai, hash, none (default: hash)
//   - EMBEDDING_BASE_URL: OpenAI-compatible API base URL
//   - EMBEDDING_API_KEY: API key for the provider
//   - EMBEDDING_MODEL: model name (default: text-embedding-3-small)
//   - EMBEDDING_STORE: duckdb, badger, redis (default: duckdb)
//   - REDIS_ADDR: Redis address when EMBEDDING_STORE=redis
type EmbeddingConfig struct {
	Provider   string        `koanf:"provider"`
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Model      string        `koanf:"model"`
	Dimensions int           `koanf:"dimensions"`
	Timeout    time.Duration `koanf:"timeout"`

	// RateLimit is the maximum provider calls per second (0 = unlimited).
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	Store         string        `koanf:"store"`
	BadgerPath    string        `koanf:"badger_path"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	RedisTTL      time.Duration `koanf:"redis_ttl"` // item vectors only, 0 = no expiry

	// LRUSize is the number of vectors kept in memory in front of the store (0 = disabled).
	LRUSize int           `koanf:"lru_size"`
	LRUTTL  time.Duration `koanf:"lru_ttl"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the embedding provider.
type BreakerConfig struct {
	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval is the closed-state window after which failure counts reset.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration `koanf:"timeout"`

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// RecommendConfig holds the ranking engine settings.
type RecommendConfig struct {
	Lambda                 float64 `koanf:"lambda"`
	DefaultK               int     `koanf:"default_k"`
	MaxK                   int     `koanf:"max_k"`
	MissingEmbeddingPolicy string  `koanf:"missing_embedding_policy"` // omit or default_mid
	ParallelThreshold      int     `koanf:"parallel_threshold"`       // 0 = always sequential
	Parallelism            int     `koanf:"parallelism"`

	// RefreshInterval re-extracts the features of every project periodically (0 = disabled).
	RefreshInterval  time.Duration `koanf:"refresh_interval"`
	// RefreshOnStartup runs one pass when the refresh service starts.
	// It has no effect while RefreshInterval is 0.
	RefreshOnStartup bool          `koanf:"refresh_on_startup"`

	Paper KindConfig `koanf:"paper"`
	Video KindConfig `koanf:"video"`
}

// KindConfig holds per-kind weights and an optional CEL eligibility expression.
type KindConfig struct {
	Weights     map[string]float64 `koanf:"weights"`
	Eligibility string             `koanf:"eligibility"`
}

// SecurityConfig holds HTTP surface protection settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// EngineConfig converts the recommend section into the engine configuration.
func (c *RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Lambda:            c.Lambda,
		DefaultK:          c.DefaultK,
		MaxK:              c.MaxK,
		MissingEmbedding:  recommend.MissingEmbeddingPolicy(c.MissingEmbeddingPolicy),
		ParallelThreshold: c.ParallelThreshold,
		Parallelism:       c.Parallelism,
		Paper:             c.Paper.engineConfig(),
		Video:             c.Video.engineConfig(),
	}
}

func (k KindConfig) engineConfig() recommend.KindConfig {
	weights := make(recommend.Weights, len(k.Weights))
	for cat, w := range k.Weights {
		weights[recommend.Category(cat)] = w
	}
	return recommend.KindConfig{Weights: weights, Eligibility: k.Eligibility}
}

func kindConfigFrom(k recommend.KindConfig) KindConfig {
	weights := make(map[string]float64, len(k.Weights))
	for cat, w := range k.Weights {
		weights[string(cat)] = w
	}
	return KindConfig{Weights: weights, Eligibility: k.Eligibility}
}

// Load reads configuration from defaults, config file and environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
