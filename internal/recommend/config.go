// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"fmt"
	"sort"
)

// MissingEmbeddingPolicy decides what the emb category holds when no
// similarity can be computed for an item.
type MissingEmbeddingPolicy string

const (
	// MissingEmbeddingOmit leaves the emb category empty. Default.
	MissingEmbeddingOmit MissingEmbeddingPolicy = "omit"

	// MissingEmbeddingDefaultMid emits the emb:mid bucket instead.
	MissingEmbeddingDefaultMid MissingEmbeddingPolicy = "default_mid"
)

// Weights maps a feature category to its contribution to the score.
type Weights map[Category]float64

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	var sum float64
	for _, c := range w.sortedCategories() {
		sum += w[c]
	}
	return sum
}

// sortedCategories returns the weighted categories in a fixed order so
// floating point sums are reproducible.
func (w Weights) sortedCategories() []Category {
	cats := make([]Category, 0, len(w))
	for c := range w {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Clone returns a copy of w.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for c, v := range w {
		out[c] = v
	}
	return out
}

// KindConfig holds the per-kind scoring configuration.
type KindConfig struct {
	// Weights is the per-category weight table. Weights need not sum to 1.
	Weights Weights `json:"weights"`

	// Eligibility is an optional CEL expression over the variable "item".
	// Candidates for which it evaluates to false are not ranked.
	Eligibility string `json:"eligibility,omitempty"`
}

// Config contains the ranking engine configuration.
type Config struct {
	// Lambda discounts the negative profile similarity. Default: 0.5.
	Lambda float64 `json:"lambda"`

	// DefaultK is the number of results returned when a request omits K.
	DefaultK int `json:"default_k"`

	// MaxK caps the number of results of one request.
	MaxK int `json:"max_k"`

	// MissingEmbedding decides how items without a similarity are tagged.
	MissingEmbedding MissingEmbeddingPolicy `json:"missing_embedding_policy"`

	// ParallelThreshold is the candidate count above which scoring runs
	// in parallel. Zero disables parallel scoring.
	ParallelThreshold int `json:"parallel_threshold"`

	// Parallelism bounds the number of scoring goroutines.
	Parallelism int `json:"parallelism"`

	Paper KindConfig `json:"paper"`
	Video KindConfig `json:"video"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Lambda:            0.5,
		DefaultK:          5,
		MaxK:              100,
		MissingEmbedding:  MissingEmbeddingOmit,
		ParallelThreshold: 256,
		Parallelism:       4,
		Paper: KindConfig{
			Weights: Weights{
				CategoryEmbedding: 0.60,
				CategoryYear:      0.20,
				CategoryAuthor:    0.15,
				CategoryType:      0.05,
			},
		},
		Video: KindConfig{
			Weights: Weights{
				CategoryEmbedding:  0.55,
				CategoryDuration:   0.15,
				CategoryPopularity: 0.10,
				CategoryEngagement: 0.10,
				CategoryFreshness:  0.05,
				CategoryType:       0.05,
			},
		},
	}
}

// ForKind returns the configuration of kind.
func (c *Config) ForKind(kind ItemKind) KindConfig {
	if kind == KindPaper {
		return c.Paper
	}
	return c.Video
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Lambda < 0 {
		return fmt.Errorf("lambda must be non-negative, got %f", c.Lambda)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k must be >= default_k, got %d < %d", c.MaxK, c.DefaultK)
	}
	switch c.MissingEmbedding {
	case MissingEmbeddingOmit, MissingEmbeddingDefaultMid:
	default:
		return fmt.Errorf("missing_embedding_policy must be %q or %q, got %q",
			MissingEmbeddingOmit, MissingEmbeddingDefaultMid, c.MissingEmbedding)
	}
	if c.ParallelThreshold < 0 {
		return fmt.Errorf("parallel_threshold must be non-negative, got %d", c.ParallelThreshold)
	}
	if c.ParallelThreshold > 0 && c.Parallelism < 1 {
		return fmt.Errorf("parallelism must be positive when parallel scoring is enabled, got %d", c.Parallelism)
	}
	if err := c.Paper.Weights.validate(KindPaper); err != nil {
		return err
	}
	return c.Video.Weights.validate(KindVideo)
}

func (w Weights) validate(kind ItemKind) error {
	if len(w) == 0 {
		return fmt.Errorf("%s.weights must not be empty", kind)
	}
	for _, cat := range w.sortedCategories() {
		if !kind.HasCategory(cat) {
			return fmt.Errorf("%s.weights: unknown category %q", kind, cat)
		}
		if w[cat] < 0 {
			return fmt.Errorf("%s.weights.%s must be non-negative, got %f", kind, cat, w[cat])
		}
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Paper.Weights = c.Paper.Weights.Clone()
	out.Video.Weights = c.Video.Weights.Clone()
	return &out
}
