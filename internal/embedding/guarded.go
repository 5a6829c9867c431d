// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/metrics"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// breakerName labels the provider circuit breaker in metrics and logs.
const breakerName = "embedding-provider"

// GuardOptions configures a GuardedProvider.
type GuardOptions struct {
	// Name labels provider metrics (e.g. "openai").
	Name string

	// RateLimit is the maximum calls per second (0 = unlimited).
	RateLimit float64
	RateBurst int

	// Circuit breaker settings. FailureThreshold consecutive failures open
	// the breaker for Timeout; MaxRequests probes are allowed half-open.
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// GuardedProvider wraps an EmbeddingProvider with a rate limiter and a
// circuit breaker.
//
// The breaker uses real time for its interval and timeout. Tests exercise
// the open transition, not recovery.
type GuardedProvider struct {
	next    recommend.EmbeddingProvider
	name    string
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]float32]
}

// NewGuardedProvider wraps next.
func NewGuardedProvider(next recommend.EmbeddingProvider, opts GuardOptions) *GuardedProvider {
	g := &GuardedProvider{
		next: next,
		name: opts.Name,
	}
	if g.name == "" {
		g.name = "unknown"
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst < 1 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	threshold := opts.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed

	g.cb = gobreaker.NewCircuitBreaker[[]float32](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: opts.MaxRequests,
		Interval:    opts.Interval,
		Timeout:     opts.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			shouldTrip := counts.ConsecutiveFailures >= threshold
			if shouldTrip {
				logging.Warn().
					Uint32("consecutive_failures", counts.ConsecutiveFailures).
					Str("provider", g.name).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		// A cancelled caller says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return g
}

// Name identifies the wrapped provider in metrics.
func (g *GuardedProvider) Name() string {
	return g.name
}

// State returns the current breaker state.
func (g *GuardedProvider) State() gobreaker.State {
	return g.cb.State()
}

// Embed waits for a rate limiter token, then calls the wrapped provider
// through the circuit breaker.
func (g *GuardedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			metrics.RecordEmbeddingProvider(g.name, "rate_limited", 0)
			return nil, fmt.Errorf("embedding rate limit: %w", err)
		}
	}

	start := time.Now()
	vec, err := g.cb.Execute(func() ([]float32, error) {
		return g.next.Embed(ctx, text)
	})
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			metrics.RecordEmbeddingProvider(g.name, "error", elapsed)
			logging.Debug().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
		case errors.Is(err, ErrRateLimited):
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			metrics.RecordEmbeddingProvider(g.name, "rate_limited", elapsed)
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
			metrics.RecordEmbeddingProvider(g.name, "error", elapsed)
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.RecordEmbeddingProvider(g.name, "success", elapsed)
	return vec, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
