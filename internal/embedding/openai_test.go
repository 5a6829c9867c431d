// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenAIProvider(OpenAIOptions{
		BaseURL:    srv.URL + "/v1/",
		APIKey:     "sk-test",
		Model:      "text-embedding-3-small",
		Dimensions: 3,
		Timeout:    5 * time.Second,
	})
}

func TestOpenAIProvider_Embed(t *testing.T) {
	var got embeddingsRequest
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/embeddings" {
			t.Errorf("request = %s %s, want POST /v1/embeddings", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,0.25,-1],"index":0}]}`))
	})

	vec, err := p.Embed(context.Background(), "  graph neural networks  ")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if want := []float32{0.5, 0.25, -1}; !reflect.DeepEqual(vec, want) {
		t.Errorf("Embed() = %v, want %v", vec, want)
	}
	if got.Model != "text-embedding-3-small" || got.Dimensions != 3 {
		t.Errorf("request model/dimensions = %q/%d", got.Model, got.Dimensions)
	}
	if len(got.Input) != 1 || got.Input[0] != "graph neural networks" {
		t.Errorf("request input = %q, want trimmed text", got.Input)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     string
		rateLimited bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":"slow down"}`, "slow down", true},
		{"server error", http.StatusInternalServerError, "boom", "status 500: boom", false},
		{"no vector", http.StatusOK, `{"data":[]}`, "no vector", false},
		{"empty vector", http.StatusOK, `{"data":[{"embedding":[],"index":0}]}`, "no vector", false},
		{"bad json", http.StatusOK, `{"data":`, "failed to decode", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Embed(context.Background(), "text")
			if err == nil {
				t.Fatal("Embed() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Embed() error = %q, want substring %q", err, tt.wantErr)
			}
			if got := errors.Is(err, ErrRateLimited); got != tt.rateLimited {
				t.Errorf("errors.Is(err, ErrRateLimited) = %v, want %v", got, tt.rateLimited)
			}
		})
	}
}

func TestOpenAIProvider_EmptyText(t *testing.T) {
	called := false
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	if _, err := p.Embed(context.Background(), "   "); err == nil {
		t.Error("Embed(blank) expected error")
	}
	if called {
		t.Error("Embed(blank) should not call the API")
	}
}

func TestReadBodyForError(t *testing.T) {
	short := readBodyForError(strings.NewReader("oops"))
	if string(short) != "oops" {
		t.Errorf("readBodyForError() = %q", short)
	}

	long := readBodyForError(strings.NewReader(strings.Repeat("x", maxErrorBodySize+10)))
	if !strings.HasSuffix(string(long), "(truncated)") {
		t.Error("readBodyForError() should mark truncated bodies")
	}
}
