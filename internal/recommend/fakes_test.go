// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var errInjected = errors.New("injected failure")

// memState is the committed content of a memStore.
type memState struct {
	items      map[int64]Item
	features   map[int64][]Feature
	prefs      []Preference
	nextItemID int64
	nextPrefID int64
}

func (s *memState) clone() *memState {
	out := &memState{
		items:      make(map[int64]Item, len(s.items)),
		features:   make(map[int64][]Feature, len(s.features)),
		prefs:      append([]Preference(nil), s.prefs...),
		nextItemID: s.nextItemID,
		nextPrefID: s.nextPrefID,
	}
	for id, item := range s.items {
		out.items[id] = item
	}
	for id, fs := range s.features {
		out.features[id] = append([]Feature(nil), fs...)
	}
	return out
}

// memStore is an in-memory Store. Transactions are serialized and work on
// a copy of the state that replaces it on commit.
type memStore struct {
	txMu sync.Mutex

	mu    sync.Mutex
	state *memState

	// failOn names a Tx method that returns errInjected.
	failOn string
	// failCommit makes Commit fail.
	failCommit bool

	commits   int
	rollbacks int
}

func newMemStore() *memStore {
	return &memStore{state: &memState{
		items:    make(map[int64]Item),
		features: make(map[int64][]Feature),
	}}
}

func (s *memStore) BeginTx(ctx context.Context) (Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.failOn == "BeginTx" {
		return nil, errInjected
	}
	s.txMu.Lock()
	s.mu.Lock()
	state := s.state.clone()
	s.mu.Unlock()
	return &memTx{store: s, state: state}, nil
}

// snapshot returns a copy of the committed state.
func (s *memStore) snapshot() *memState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *memStore) itemCount() int {
	return len(s.snapshot().items)
}

type memTx struct {
	store *memStore
	state *memState
	done  bool
}

func (t *memTx) fail(method string) error {
	if t.store.failOn == method {
		return errInjected
	}
	return nil
}

func (t *memTx) FindItemByTitle(_ context.Context, projectID int64, kind ItemKind, title string) (int64, error) {
	if err := t.fail("FindItemByTitle"); err != nil {
		return 0, err
	}
	ids := make([]int64, 0)
	for id, item := range t.state.items {
		if item.ProjectID == projectID && item.Kind == kind && item.Title == title {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, ErrNotFound
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids[0], nil
}

func (t *memTx) InsertItem(_ context.Context, item *Item) (int64, error) {
	if err := t.fail("InsertItem"); err != nil {
		return 0, err
	}
	t.state.nextItemID++
	stored := *item
	stored.ID = t.state.nextItemID
	t.state.items[stored.ID] = stored
	return stored.ID, nil
}

func (t *memTx) GetItem(_ context.Context, projectID int64, kind ItemKind, itemID int64) (*Item, error) {
	if err := t.fail("GetItem"); err != nil {
		return nil, err
	}
	item, ok := t.state.items[itemID]
	if !ok || item.ProjectID != projectID || item.Kind != kind {
		return nil, ErrNotFound
	}
	return &item, nil
}

func (t *memTx) ListItems(_ context.Context, filter ItemFilter) ([]Item, error) {
	if err := t.fail("ListItems"); err != nil {
		return nil, err
	}
	out := make([]Item, 0)
	for _, item := range t.state.items {
		if item.ProjectID != filter.ProjectID || item.Kind != filter.Kind {
			continue
		}
		if filter.UnservedOnly && item.Served {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (t *memTx) ReplaceFeatures(_ context.Context, _ ItemKind, itemID int64, features []Feature) error {
	if err := t.fail("ReplaceFeatures"); err != nil {
		return err
	}
	t.state.features[itemID] = append([]Feature(nil), features...)
	return nil
}

func (t *memTx) LoadFeatures(_ context.Context, _ ItemKind, itemIDs []int64) (map[int64]FeatureSet, error) {
	if err := t.fail("LoadFeatures"); err != nil {
		return nil, err
	}
	out := make(map[int64]FeatureSet, len(itemIDs))
	for _, id := range itemIDs {
		if rows, ok := t.state.features[id]; ok && len(rows) > 0 {
			out[id] = FeatureSetFrom(rows)
		}
	}
	return out, nil
}

func (t *memTx) Preferences(_ context.Context, projectID int64, kind ItemKind) ([]Preference, error) {
	if err := t.fail("Preferences"); err != nil {
		return nil, err
	}
	out := make([]Preference, 0)
	for _, p := range t.state.prefs {
		if p.ProjectID == projectID && p.Kind == kind {
			out = append(out, p)
		}
	}
	return out, nil
}

func (t *memTx) InsertPreference(_ context.Context, pref *Preference) (int64, error) {
	if err := t.fail("InsertPreference"); err != nil {
		return 0, err
	}
	t.state.nextPrefID++
	stored := *pref
	stored.ID = t.state.nextPrefID
	t.state.prefs = append(t.state.prefs, stored)
	return stored.ID, nil
}

func (t *memTx) RecordRanking(_ context.Context, _ ItemKind, entries []RankingEntry) error {
	if err := t.fail("RecordRanking"); err != nil {
		return err
	}
	for _, e := range entries {
		item := t.state.items[e.ItemID]
		score, pos := e.Score, e.Position
		item.LastScore = &score
		item.RankPosition = &pos
		t.state.items[e.ItemID] = item
	}
	return nil
}

func (t *memTx) MarkServed(_ context.Context, _ ItemKind, itemIDs []int64) error {
	if err := t.fail("MarkServed"); err != nil {
		return err
	}
	for _, id := range itemIDs {
		item := t.state.items[id]
		item.Served = true
		t.state.items[id] = item
	}
	return nil
}

func (t *memTx) ProjectIDs(_ context.Context, kind ItemKind) ([]int64, error) {
	if err := t.fail("ProjectIDs"); err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{})
	for _, item := range t.state.items {
		if item.Kind == kind {
			seen[item.ProjectID] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	if t.store.failCommit {
		return errInjected
	}
	t.done = true
	t.store.mu.Lock()
	t.store.state = t.state
	t.store.commits++
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return nil
	}
	t.done = true
	t.store.mu.Lock()
	t.store.rollbacks++
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

// memEmbeddings is an in-memory EmbeddingStore.
type memEmbeddings struct {
	mu      sync.Mutex
	vectors map[EntityKey][]float32
	getErr  error
	putErr  error
	puts    int

	// txStore, when set, counts accesses made while one of its
	// transactions is open.
	txStore  *memStore
	duringTx int
}

// checkTx records an access made while a transaction of txStore is open.
// Callers hold m.mu.
func (m *memEmbeddings) checkTx() {
	if m.txStore == nil {
		return
	}
	if !m.txStore.txMu.TryLock() {
		m.duringTx++
		return
	}
	m.txStore.txMu.Unlock()
}

func (m *memEmbeddings) accessesDuringTx() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duringTx
}

func newMemEmbeddings() *memEmbeddings {
	return &memEmbeddings{vectors: make(map[EntityKey][]float32)}
}

func (m *memEmbeddings) GetEmbedding(_ context.Context, key EntityKey) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkTx()
	if m.getErr != nil {
		return nil, m.getErr
	}
	vec, ok := m.vectors[key]
	if !ok {
		return nil, ErrNotFound
	}
	return vec, nil
}

func (m *memEmbeddings) PutEmbedding(_ context.Context, key EntityKey, vec []float32) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkTx()
	if m.putErr != nil {
		return m.putErr
	}
	m.puts++
	m.vectors[key] = vec
	return nil
}

func (m *memEmbeddings) has(key EntityKey) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.vectors[key]
	return ok
}

// fakeProvider returns a fixed vector per text, or a default vector.
type fakeProvider struct {
	mu       sync.Mutex
	vectors  map[string][]float32
	fallback []float32
	err      error
	calls    int
}

func (p *fakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	if vec, ok := p.vectors[text]; ok {
		return vec, nil
	}
	return p.fallback, nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}
