// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// FeatureRefresher rebuilds the stored features of every item of one kind.
// *recommend.Recommender implements it.
type FeatureRefresher interface {
	UpdateAllFeatures(ctx context.Context) (int, error)
}

// FeatureRefreshConfig holds configuration for the feature refresh service.
type FeatureRefreshConfig struct {
	// Interval between refresh passes. Must be positive.
	Interval time.Duration

	// RefreshOnStartup runs one pass when the service starts.
	RefreshOnStartup bool

	// Timeout bounds one pass over all refreshers. Default: 30m
	Timeout time.Duration
}

// FeatureRefreshService periodically re-extracts item features so
// time-relative buckets (freshness, publication year) track the clock.
type FeatureRefreshService struct {
	refreshers map[string]FeatureRefresher
	config     FeatureRefreshConfig
	logger     zerolog.Logger
	name       string
}

// NewFeatureRefreshService creates a refresh service over the named
// refreshers, typically one per item kind.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFeatureRefreshService(refreshers map[string]FeatureRefresher, cfg FeatureRefreshConfig, logger zerolog.Logger) *FeatureRefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &FeatureRefreshService{
		refreshers: refreshers,
		config:     cfg,
		logger:     logger.With().Str("service", "feature-refresh").Logger(),
		name:       "feature-refresh",
	}
}

// Serve implements suture.Service. Failed passes are logged and retried
// on the next tick; they do not crash the service.
func (s *FeatureRefreshService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.logger.Warn().Msg("feature refresh interval is not positive, service disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	s.logger.Info().
		Bool("refresh_on_startup", s.config.RefreshOnStartup).
		Dur("interval", s.config.Interval).
		Msg("feature refresh service starting")

	if s.config.RefreshOnStartup {
		s.refresh(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("feature refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

// refresh runs one pass over every refresher.
func (s *FeatureRefreshService) refresh(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	total := 0
	for kind, r := range s.refreshers {
		n, err := r.UpdateAllFeatures(passCtx)
		total += n
		if err != nil {
			s.logger.Warn().Err(err).Str("kind", kind).Int("updated", n).Msg("feature refresh failed")
			continue
		}
		s.logger.Debug().Str("kind", kind).Int("updated", n).Msg("features refreshed")
	}

	s.logger.Info().
		Int("updated", total).
		Dur("duration", time.Since(start)).
		Msg("feature refresh pass complete")
}

// String returns the service name for logging.
func (s *FeatureRefreshService) String() string {
	return s.name
}
