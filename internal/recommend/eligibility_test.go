// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"testing"
	"time"
)

func TestNewEligibilityFilter_Empty(t *testing.T) {
	f, err := NewEligibilityFilter("")
	if err != nil || f != nil {
		t.Fatalf("NewEligibilityFilter(\"\") = %v, %v; want nil, nil", f, err)
	}
	ok, err := f.Eligible(&Item{})
	if !ok || err != nil {
		t.Errorf("nil filter Eligible() = %v, %v; want true, nil", ok, err)
	}
}

func TestNewEligibilityFilter_CompileError(t *testing.T) {
	if _, err := NewEligibilityFilter("item.year >="); err == nil {
		t.Error("expected compile error")
	}
}

func TestEligibilityFilter_Eligible(t *testing.T) {
	published := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	paper := &Item{
		ID:    1,
		Kind:  KindPaper,
		Title: "Graph Neural Networks",
		Attributes: Attributes{
			PublishedYear: intPtr(2019),
			Authors:       []string{"Ada Lovelace"},
			PublishedAt:   &published,
		},
	}
	bare := &Item{ID: 2, Kind: KindVideo, Title: "Intro"}
	long := &Item{ID: 3, Kind: KindVideo, Title: "Lecture", Attributes: Attributes{DurationSeconds: intPtr(4000)}}

	tests := []struct {
		name string
		expr string
		item *Item
		want bool
	}{
		{"year threshold passes", "item.year >= 2015", paper, true},
		{"year threshold fails", "item.year >= 2020", paper, false},
		{"missing attribute guarded by has", "!has(item.year) || item.year >= 2020", bare, true},
		{"author membership", `"Ada Lovelace" in item.authors`, paper, true},
		{"title match", `item.title.contains("Neural")`, paper, true},
		{"duration cap", "!has(item.duration_seconds) || item.duration_seconds <= 3600", long, false},
		{"timestamp comparison", `item.published_at > timestamp("2023-01-01T00:00:00Z")`, paper, true},
		{"served flag", "!item.served", bare, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewEligibilityFilter(tt.expr)
			if err != nil {
				t.Fatalf("NewEligibilityFilter() error = %v", err)
			}
			got, err := f.Eligible(tt.item)
			if err != nil {
				t.Fatalf("Eligible() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Eligible() = %v, want %v", got, tt.want)
			}
			if f.String() != tt.expr {
				t.Errorf("String() = %q, want %q", f.String(), tt.expr)
			}
		})
	}
}

func TestEligibilityFilter_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"missing key", "item.year >= 2015"},
		{"non boolean", "item.title"},
	}

	bare := &Item{ID: 2, Kind: KindVideo, Title: "Intro"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewEligibilityFilter(tt.expr)
			if err != nil {
				t.Fatalf("NewEligibilityFilter() error = %v", err)
			}
			if _, err := f.Eligible(bare); err == nil {
				t.Error("Eligible() expected error")
			}
		})
	}
}
