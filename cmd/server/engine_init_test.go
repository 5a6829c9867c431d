// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package main

import (
	"testing"
	"time"

	"github.com/tomtom215/studyfeed/internal/config"
)

func TestRefreshServiceConfig(t *testing.T) {
	tests := []struct {
		name      string
		recommend config.RecommendConfig
		interval  time.Duration
		onStartup bool
	}{
		{"periodic only", config.RecommendConfig{RefreshInterval: time.Hour}, time.Hour, false},
		{"periodic and startup", config.RecommendConfig{RefreshInterval: 10 * time.Minute, RefreshOnStartup: true}, 10 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := refreshServiceConfig(&tt.recommend)
			if got.Interval != tt.interval {
				t.Errorf("Interval = %v, want %v", got.Interval, tt.interval)
			}
			if got.RefreshOnStartup != tt.onStartup {
				t.Errorf("RefreshOnStartup = %v, want %v", got.RefreshOnStartup, tt.onStartup)
			}
		})
	}
}
