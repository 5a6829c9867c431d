// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
)

func TestPerformanceMonitor_Stats(t *testing.T) {
	pm := NewPerformanceMonitor(100, 0)
	for _, d := range []int64{10, 20, 30, 40, 50} {
		pm.Record(RequestSample{Route: "/a", Method: http.MethodGet, DurationMS: d, StatusCode: 200})
	}
	pm.Record(RequestSample{Route: "/b", Method: http.MethodPost, DurationMS: 5, StatusCode: 500})

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("len(Stats()) = %d, want 2", len(stats))
	}

	a := stats[0]
	if a.Endpoint != "GET /a" || a.RequestCount != 5 {
		t.Errorf("stats[0] = %+v, want GET /a with 5 requests", a)
	}
	if a.AvgDuration != 30 || a.P50Duration != 30 || a.MinDuration != 10 || a.MaxDuration != 50 {
		t.Errorf("GET /a durations = %+v", a)
	}
	if a.ErrorCount != 0 {
		t.Errorf("GET /a ErrorCount = %d, want 0", a.ErrorCount)
	}

	if b := stats[1]; b.Endpoint != "POST /b" || b.ErrorCount != 1 {
		t.Errorf("stats[1] = %+v, want POST /b with 1 error", b)
	}
}

func TestPerformanceMonitor_WindowEvictsOldest(t *testing.T) {
	pm := NewPerformanceMonitor(3, 0)
	for i := int64(1); i <= 5; i++ {
		pm.Record(RequestSample{Route: "/r", Method: http.MethodGet, DurationMS: i})
	}

	recent := pm.Recent(10)
	if len(recent) != 3 {
		t.Fatalf("len(Recent()) = %d, want 3", len(recent))
	}
	for i, want := range []int64{3, 4, 5} {
		if recent[i].DurationMS != want {
			t.Errorf("Recent()[%d].DurationMS = %d, want %d", i, recent[i].DurationMS, want)
		}
	}

	if last := pm.Recent(1); len(last) != 1 || last[0].DurationMS != 5 {
		t.Errorf("Recent(1) = %+v", last)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	pm := NewPerformanceMonitor(10, time.Nanosecond)

	tick := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pm.now = func() time.Time {
		tick = tick.Add(25 * time.Millisecond)
		return tick
	}

	r := chi.NewRouter()
	r.Use(pm.Middleware)
	r.Get("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/projects/9", nil))

	recent := pm.Recent(1)
	if len(recent) != 1 {
		t.Fatalf("no sample recorded")
	}
	got := recent[0]
	if got.Route != "/projects/{id}" || got.StatusCode != http.StatusTeapot || got.DurationMS != 25 {
		t.Errorf("sample = %+v", got)
	}
}

func TestPercentile(t *testing.T) {
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile(nil) = %d", got)
	}
	sorted := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(sorted, 0.95); got != 9 {
		t.Errorf("percentile(p95) = %d, want 9", got)
	}
}
