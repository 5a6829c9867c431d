// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// mockRefresher counts refresh passes.
type mockRefresher struct {
	mu    sync.Mutex
	calls int
	err   error
	done  chan struct{}
}

func newMockRefresher() *mockRefresher {
	return &mockRefresher{done: make(chan struct{}, 16)}
}

func (m *mockRefresher) UpdateAllFeatures(context.Context) (int, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()

	select {
	case m.done <- struct{}{}:
	default:
	}
	return 2, err
}

func (m *mockRefresher) getCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func waitForCalls(t *testing.T, m *mockRefresher, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for m.getCalls() < n {
		select {
		case <-m.done:
		case <-deadline:
			t.Fatalf("refresher called %d times, want at least %d", m.getCalls(), n)
		}
	}
}

func TestFeatureRefreshService_String(t *testing.T) {
	svc := NewFeatureRefreshService(nil, FeatureRefreshConfig{Interval: time.Hour}, zerolog.Nop())
	if got := svc.String(); got != "feature-refresh" {
		t.Errorf("String() = %q, want feature-refresh", got)
	}
	if svc.config.Timeout != 30*time.Minute {
		t.Errorf("default Timeout = %v, want 30m", svc.config.Timeout)
	}
}

func TestFeatureRefreshService_RefreshOnStartup(t *testing.T) {
	papers, videos := newMockRefresher(), newMockRefresher()
	svc := NewFeatureRefreshService(map[string]FeatureRefresher{"paper": papers, "video": videos},
		FeatureRefreshConfig{Interval: time.Hour, RefreshOnStartup: true}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitForCalls(t, papers, 1)
	waitForCalls(t, videos, 1)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestFeatureRefreshService_Periodic(t *testing.T) {
	r := newMockRefresher()
	r.err = errors.New("project 3: database is locked")
	svc := NewFeatureRefreshService(map[string]FeatureRefresher{"video": r},
		FeatureRefreshConfig{Interval: 20 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	// failures do not stop the schedule
	waitForCalls(t, r, 3)
	cancel()
	<-errCh
}

func TestFeatureRefreshService_DisabledInterval(t *testing.T) {
	r := newMockRefresher()
	svc := NewFeatureRefreshService(map[string]FeatureRefresher{"paper": r},
		FeatureRefreshConfig{RefreshOnStartup: true}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() error = %v, want context.DeadlineExceeded", err)
	}
	if r.getCalls() != 0 {
		t.Errorf("refresher called %d times with a disabled interval", r.getCalls())
	}
}
