// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/studyfeed/internal/config"
	"github.com/tomtom215/studyfeed/internal/database"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// fakeEngine records calls and returns canned results.
type fakeEngine struct {
	kind recommend.ItemKind
	err  error

	mu          sync.Mutex
	added       []recommend.Candidate
	addedFor    int64
	lastRequest recommend.Request
	lastPref    recommend.Preference
	refreshed   []int64
	refreshAll  int
}

func newFakeEngine(kind recommend.ItemKind) *fakeEngine {
	return &fakeEngine{kind: kind}
}

func (f *fakeEngine) Kind() recommend.ItemKind { return f.kind }

func (f *fakeEngine) AddCandidates(_ context.Context, projectID int64, candidates []recommend.Candidate) (*recommend.IngestResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.added = append(f.added, candidates...)
	f.addedFor = projectID
	result := &recommend.IngestResult{}
	for i := range candidates {
		result.ItemIDs = append(result.ItemIDs, int64(100+i))
	}
	return result, nil
}

func (f *fakeEngine) Recommend(_ context.Context, req recommend.Request) (*recommend.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Response{
		Items:   []recommend.ScoredItem{},
		Outcome: recommend.OutcomeNoCandidates,
		Metadata: recommend.ResponseMetadata{
			RequestID: req.RequestID,
			Kind:      f.kind,
		},
	}, nil
}

func (f *fakeEngine) UpdateFeatures(_ context.Context, projectID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.refreshed = append(f.refreshed, projectID)
	return 3, nil
}

func (f *fakeEngine) UpdateAllFeatures(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.refreshAll++
	return 7, nil
}

func (f *fakeEngine) RecordPreference(_ context.Context, projectID, itemID int64, liked bool) (*recommend.Preference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lastPref = recommend.Preference{ID: 1, ProjectID: projectID, Kind: f.kind, ItemID: itemID, Liked: liked}
	return &f.lastPref, nil
}

func (f *fakeEngine) GetItem(_ context.Context, projectID, itemID int64) (*recommend.Item, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &recommend.Item{ID: itemID, ProjectID: projectID, Kind: f.kind, Title: "Item"}, nil
}

// fakeEmbedder records the embedded project text.
type fakeEmbedder struct {
	err       error
	projectID int64
	text      string
}

func (f *fakeEmbedder) EmbedProject(_ context.Context, projectID int64, text string) error {
	if f.err != nil {
		return f.err
	}
	f.projectID = projectID
	f.text = text
	return nil
}

// fakeHealth implements HealthChecker.
type fakeHealth struct {
	pingErr  error
	countErr error
}

func (f *fakeHealth) Ping(context.Context) error { return f.pingErr }

func (f *fakeHealth) GetRecordCounts(context.Context) (*database.RecordCounts, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	return &database.RecordCounts{Papers: 4, Videos: 2, Preferences: 3, Embeddings: 5}, nil
}

func (f *fakeHealth) GetCurrentSchemaVersion(context.Context) (int, error) {
	return 1, nil
}

var errBoom = errors.New("boom")

// testConfig returns a configuration with rate limiting disabled.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Timeout: 5 * time.Second},
		Embedding: config.EmbeddingConfig{
			Provider: config.EmbeddingProviderHash,
			Store:    config.EmbeddingStoreDuckDB,
		},
		Security: config.SecurityConfig{RateLimitDisabled: true},
	}
}

// testServer bundles a router over fake dependencies.
type testServer struct {
	handler  *Handler
	router   http.Handler
	papers   *fakeEngine
	videos   *fakeEngine
	embedder *fakeEmbedder
	health   *fakeHealth
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		papers:   newFakeEngine(recommend.KindPaper),
		videos:   newFakeEngine(recommend.KindVideo),
		embedder: &fakeEmbedder{},
		health:   &fakeHealth{},
	}
	cfg := testConfig()
	ts.handler = NewHandler(ts.health, ts.embedder, cfg, ts.papers, ts.videos)
	ts.router = NewRouter(ts.handler, &cfg.Security).SetupChi()
	return ts
}

// envelope mirrors models.APIResponse with undecoded data.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
	} `json:"metadata"`
}

// do serves one request and decodes the response envelope.
func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: failed to decode response %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w, env
}

// errorCode returns the error code of env, or "".
func errorCode(env envelope) string {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}
