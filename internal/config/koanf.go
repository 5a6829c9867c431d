// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/studyfeed/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/studyfeed/config.yaml",
	"/etc/studyfeed/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8460,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/studyfeed.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Embedding: EmbeddingConfig{
			// The hash provider needs no network access, so a fresh install
			// still produces a semantic signal.
			Provider:   EmbeddingProviderHash,
			BaseURL:    "https://api.openai.com/v1",
			Model:      "text-embedding-3-small",
			Dimensions: 256,
			Timeout:    15 * time.Second,
			RateLimit:  10,
			RateBurst:  5,
			Store:      EmbeddingStoreDuckDB,
			BadgerPath: "/data/embeddings",
			RedisAddr:  "localhost:6379",
			RedisTTL:   0,
			LRUSize:    10000,
			LRUTTL:     time.Hour,
			Breaker: BreakerConfig{
				MaxRequests:      1,
				Interval:         time.Minute,
				Timeout:          30 * time.Second,
				FailureThreshold: 5,
			},
		},
		Recommend: RecommendConfig{
			Lambda:                 engine.Lambda,
			DefaultK:               engine.DefaultK,
			MaxK:                   engine.MaxK,
			MissingEmbeddingPolicy: string(engine.MissingEmbedding),
			ParallelThreshold:      engine.ParallelThreshold,
			Parallelism:            engine.Parallelism,
			RefreshInterval:        0, // Disabled by default - features are extracted on ingestion
			RefreshOnStartup:       false,
			Paper:                  kindConfigFrom(engine.Paper),
			Video:                  kindConfigFrom(engine.Video),
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Weight tables are replaced as a whole when the config file sets them.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (defaults or YAML file)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		if strVal, ok := val.(string); ok {
			if strVal == "" {
				continue
			}
			parts := strings.Split(strVal, ",")
			trimmed := make([]string, 0, len(parts))
			for _, p := range parts {
				p = strings.TrimSpace(p)
				if p != "" {
					trimmed = append(trimmed, p)
				}
			}
			if len(trimmed) > 0 {
				if err := k.Set(path, trimmed); err != nil {
					return fmt.Errorf("failed to set %s: %w", path, err)
				}
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database mappings
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Embedding mappings
	"embedding_provider":          "embedding.provider",
	"embedding_base_url":          "embedding.base_url",
	"embedding_api_key":           "embedding.api_key",
	"openai_api_key":              "embedding.api_key",
	"embedding_model":             "embedding.model",
	"embedding_dimensions":        "embedding.dimensions",
	"embedding_timeout":           "embedding.timeout",
	"embedding_rate_limit":        "embedding.rate_limit",
	"embedding_rate_burst":        "embedding.rate_burst",
	"embedding_store":             "embedding.store",
	"embedding_badger_path":       "embedding.badger_path",
	"redis_addr":                  "embedding.redis_addr",
	"redis_password":              "embedding.redis_password",
	"redis_db":                    "embedding.redis_db",
	"embedding_redis_ttl":         "embedding.redis_ttl",
	"embedding_lru_size":          "embedding.lru_size",
	"embedding_lru_ttl":           "embedding.lru_ttl",
	"embedding_breaker_timeout":   "embedding.breaker.timeout",
	"embedding_breaker_failures":  "embedding.breaker.failure_threshold",
	"embedding_breaker_interval":  "embedding.breaker.interval",
	"embedding_breaker_max_probe": "embedding.breaker.max_requests",

	// Recommendation engine mappings
	"recommend_lambda":             "recommend.lambda",
	"recommend_default_k":          "recommend.default_k",
	"recommend_max_k":              "recommend.max_k",
	"recommend_missing_embedding":  "recommend.missing_embedding_policy",
	"recommend_parallel_threshold": "recommend.parallel_threshold",
	"recommend_parallelism":        "recommend.parallelism",
	"recommend_refresh_interval":   "recommend.refresh_interval",
	"recommend_refresh_on_startup": "recommend.refresh_on_startup",
	"recommend_paper_eligibility":  "recommend.paper.eligibility",
	"recommend_video_eligibility":  "recommend.video.eligibility",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - HTTP_PORT -> server.port
//   - EMBEDDING_PROVIDER -> embedding.provider
//   - RECOMMEND_LAMBDA -> recommend.lambda
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so unrelated environment variables
	// do not pollute the configuration.
	return ""
}
