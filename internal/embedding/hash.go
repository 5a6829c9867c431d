// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package embedding

import (
	"context"
	"errors"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashProvider is a local embedder based on feature hashing: every lowercase
// word is hashed into one of Dimensions buckets with a hash-derived sign,
// and the result is L2-normalized. Texts sharing vocabulary get a positive
// cosine similarity. It needs no network and is deterministic.
type HashProvider struct {
	dimensions int
}

// NewHashProvider creates a hashing embedder producing vectors of the given size.
func NewHashProvider(dimensions int) *HashProvider {
	if dimensions < 1 {
		dimensions = 256
	}
	return &HashProvider{dimensions: dimensions}
}

// Name identifies the provider in metrics.
func (p *HashProvider) Name() string {
	return "hash"
}

// Embed returns the hashed bag-of-words vector of text.
func (p *HashProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil, errors.New("embed: text has no tokens")
	}

	acc := make([]float64, p.dimensions)
	for _, tok := range tokens {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		idx := int(sum % uint64(p.dimensions))
		if sum>>63 == 1 {
			acc[idx]--
		} else {
			acc[idx]++
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	vec := make([]float32, p.dimensions)
	if norm == 0 {
		return vec, nil
	}
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
