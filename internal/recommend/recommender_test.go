// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const testProject int64 = 1

func fixedClock() time.Time { return testNow }

func newTestVideos(t *testing.T, store Store, cache *EmbeddingCache, cfg *Config) *Recommender {
	t.Helper()
	r, err := NewVideoRecommender(store, cache, cfg, zerolog.Nop(), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("NewVideoRecommender() error = %v", err)
	}
	return r
}

func newTestPapers(t *testing.T, store Store, cache *EmbeddingCache, cfg *Config) *Recommender {
	t.Helper()
	r, err := NewPaperRecommender(store, cache, cfg, zerolog.Nop(), WithClock(fixedClock))
	if err != nil {
		t.Fatalf("NewPaperRecommender() error = %v", err)
	}
	return r
}

func video(title string, seconds int) Candidate {
	return &VideoCandidate{Title: title, DurationSeconds: intPtr(seconds)}
}

func paper(title string, year int, authors ...string) Candidate {
	c := &PaperCandidate{Title: title, Year: intPtr(year)}
	for _, a := range authors {
		c.Authors = append(c.Authors, Author{Name: a})
	}
	return c
}

func mustAdd(t *testing.T, r *Recommender, project int64, cands ...Candidate) []int64 {
	t.Helper()
	res, err := r.AddCandidates(context.Background(), project, cands)
	if err != nil {
		t.Fatalf("AddCandidates() error = %v", err)
	}
	return res.ItemIDs
}

func mustRecommend(t *testing.T, r *Recommender, req Request) *Response {
	t.Helper()
	resp, err := r.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	return resp
}

func itemIDs(items []ScoredItem) []int64 {
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func TestNewRecommender_Errors(t *testing.T) {
	store := newMemStore()

	if _, err := NewRecommender("podcast", store, nil, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown kind")
	}
	if _, err := NewRecommender(KindPaper, nil, nil, nil, zerolog.Nop()); err == nil {
		t.Error("expected error for nil store")
	}

	bad := DefaultConfig()
	bad.Lambda = -1
	if _, err := NewRecommender(KindPaper, store, nil, bad, zerolog.Nop()); err == nil {
		t.Error("expected error for invalid config")
	}

	badExpr := DefaultConfig()
	badExpr.Video.Eligibility = "item.("
	if _, err := NewVideoRecommender(store, nil, badExpr, zerolog.Nop()); err == nil {
		t.Error("expected error for invalid eligibility expression")
	}
}

func TestAddCandidates_Idempotent(t *testing.T) {
	store := newMemStore()
	r := newTestPapers(t, store, nil, nil)
	cands := []Candidate{paper("Attention Is All You Need", 2017), paper("BERT", 2018)}

	first, err := r.AddCandidates(context.Background(), testProject, cands)
	if err != nil {
		t.Fatalf("AddCandidates() error = %v", err)
	}
	if len(first.ItemIDs) != 2 || len(first.Duplicates) != 0 {
		t.Fatalf("first call = %+v, want 2 new items", first)
	}

	second, err := r.AddCandidates(context.Background(), testProject, cands)
	if err != nil {
		t.Fatalf("AddCandidates() error = %v", err)
	}
	if len(second.ItemIDs) != 0 {
		t.Errorf("second call created %v, want none", second.ItemIDs)
	}
	if !reflect.DeepEqual(second.Duplicates, first.ItemIDs) {
		t.Errorf("Duplicates = %v, want %v", second.Duplicates, first.ItemIDs)
	}
	if store.itemCount() != 2 {
		t.Errorf("store has %d items, want 2", store.itemCount())
	}

	// the same title in another project is a different item
	other := mustAdd(t, r, testProject+1, cands[0])
	if len(other) != 1 {
		t.Errorf("other project created %v, want one item", other)
	}
}

func TestAddCandidates_DuplicateWithinBatch(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)

	res, err := r.AddCandidates(context.Background(), testProject, []Candidate{video("Intro", 60), video(" Intro ", 90)})
	if err != nil {
		t.Fatalf("AddCandidates() error = %v", err)
	}
	if len(res.ItemIDs) != 1 || len(res.Duplicates) != 1 || res.Duplicates[0] != res.ItemIDs[0] {
		t.Errorf("result = %+v, want one item and one duplicate of it", res)
	}
}

func TestAddCandidates_SkipsInvalid(t *testing.T) {
	store := newMemStore()
	r := newTestPapers(t, store, nil, nil)

	res, err := r.AddCandidates(context.Background(), testProject, []Candidate{
		paper("Valid", 2020),
		&PaperCandidate{Title: ""},
		video("Wrong kind", 60),
		nil,
		paper("Also valid", 2021),
	})
	if err != nil {
		t.Fatalf("AddCandidates() error = %v", err)
	}

	if len(res.ItemIDs) != 2 {
		t.Errorf("ItemIDs = %v, want 2 items", res.ItemIDs)
	}
	if len(res.Skipped) != 3 {
		t.Fatalf("Skipped = %+v, want 3", res.Skipped)
	}
	for i, wantIndex := range []int{1, 2, 3} {
		if res.Skipped[i].Index != wantIndex {
			t.Errorf("Skipped[%d].Index = %d, want %d", i, res.Skipped[i].Index, wantIndex)
		}
		if res.Skipped[i].Reason == "" {
			t.Errorf("Skipped[%d] has no reason", i)
		}
	}
	if res.Skipped[1].Title != "Wrong kind" {
		t.Errorf("Skipped[1].Title = %q", res.Skipped[1].Title)
	}
}

func TestAddCandidates_PersistenceFailureRollsBack(t *testing.T) {
	tests := []struct {
		name       string
		failOn     string
		failCommit bool
	}{
		{"begin", "BeginTx", false},
		{"lookup", "FindItemByTitle", false},
		{"insert", "InsertItem", false},
		{"features", "ReplaceFeatures", false},
		{"commit", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			r := newTestVideos(t, store, nil, nil)
			store.failOn = tt.failOn
			store.failCommit = tt.failCommit

			_, err := r.AddCandidates(context.Background(), testProject, []Candidate{video("A", 60), video("B", 60)})
			if !IsPersistence(err) {
				t.Fatalf("AddCandidates() error = %v, want persistence error", err)
			}
			if !errors.Is(err, errInjected) {
				t.Errorf("error chain lost the cause: %v", err)
			}
			if store.itemCount() != 0 {
				t.Errorf("store has %d items after failure, want 0", store.itemCount())
			}
		})
	}
}

func TestAddCandidates_EmbeddingBuckets(t *testing.T) {
	store := newMemStore()
	embeddings := newMemEmbeddings()
	embeddings.vectors[ProjectKey(testProject)] = []float32{1, 0}
	provider := &fakeProvider{vectors: map[string][]float32{
		"Close":  {1, 0.05},
		"Medium": {1, 1},
		"Far":    {0, 1},
	}}
	r := newTestVideos(t, store, NewEmbeddingCache(provider, embeddings, zerolog.Nop()), nil)

	ids := mustAdd(t, r, testProject, video("Close", 60), video("Medium", 60), video("Far", 60))

	state := store.snapshot()
	want := []string{"emb:excellent", "emb:mid", "emb:poor"}
	for i, id := range ids {
		fs := FeatureSetFrom(state.features[id])
		if !fs.Has(CategoryEmbedding, want[i]) {
			t.Errorf("item %d features = %v, want %s", id, fs.Features(), want[i])
		}
	}
	if provider.callCount() != 3 {
		t.Errorf("provider called %d times, want 3", provider.callCount())
	}
}

func TestAddCandidates_EmbeddingsOutsideTransaction(t *testing.T) {
	store := newMemStore()
	embeddings := newMemEmbeddings()
	embeddings.vectors[ProjectKey(testProject)] = []float32{1, 0}
	embeddings.txStore = store
	provider := &fakeProvider{fallback: []float32{1, 0}}
	cache := NewEmbeddingCache(provider, embeddings, zerolog.Nop())
	r := newTestVideos(t, store, cache, nil)
	ctx := context.Background()

	ids := mustAdd(t, r, testProject, video("A", 60), video("B", 4000))
	for _, id := range ids {
		if !embeddings.has(ItemKey(KindVideo, id)) {
			t.Errorf("vector of item %d was not stored", id)
		}
	}

	// Known titles and repeats within the batch are not embedded.
	res, err := r.AddCandidates(ctx, testProject, []Candidate{video("A", 60), video("C", 60), video("C", 60)})
	if err != nil {
		t.Fatalf("AddCandidates() error = %v", err)
	}
	if len(res.ItemIDs) != 1 || len(res.Duplicates) != 2 {
		t.Errorf("AddCandidates() = %+v, want 1 inserted and 2 duplicates", res)
	}
	if provider.callCount() != 3 {
		t.Errorf("provider called %d times, want 3", provider.callCount())
	}

	if _, err := r.UpdateFeatures(ctx, testProject); err != nil {
		t.Fatalf("UpdateFeatures() error = %v", err)
	}
	if n := embeddings.accessesDuringTx(); n != 0 {
		t.Errorf("embedding store used %d times inside a transaction", n)
	}
}

func TestAddCandidates_ProviderOutage(t *testing.T) {
	store := newMemStore()
	embeddings := newMemEmbeddings()
	embeddings.vectors[ProjectKey(testProject)] = []float32{1, 0}
	provider := &fakeProvider{err: errors.New("503 service unavailable")}
	r := newTestVideos(t, store, NewEmbeddingCache(provider, embeddings, zerolog.Nop()), nil)

	ids := mustAdd(t, r, testProject, video("Short", 120), video("Long", 4000))
	if len(ids) != 2 {
		t.Fatalf("ItemIDs = %v, want 2 items", ids)
	}

	state := store.snapshot()
	for _, id := range ids {
		fs := FeatureSetFrom(state.features[id])
		if len(fs.Values(CategoryEmbedding)) != 0 {
			t.Errorf("item %d has emb tags during an outage", id)
		}
		if len(fs.Values(CategoryDuration)) != 1 || !fs.Has(CategoryType, "video") {
			t.Errorf("item %d lost non-emb features: %v", id, fs.Features())
		}
	}

	if _, err := r.RecordPreference(context.Background(), testProject, ids[0], true); err != nil {
		t.Fatalf("RecordPreference() error = %v", err)
	}
	resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 2})
	if resp.Outcome != OutcomeRanked || len(resp.Items) != 2 {
		t.Fatalf("Recommend() = %+v, want a ranking of 2", resp)
	}
	if resp.Items[0].ID != ids[0] || resp.Items[0].Score <= resp.Items[1].Score {
		t.Errorf("ranking = %v, want liked duration bucket first", itemIDs(resp.Items))
	}
}

func TestAddCandidates_MissingEmbeddingDefaultMid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MissingEmbedding = MissingEmbeddingDefaultMid
	store := newMemStore()
	r := newTestVideos(t, store, nil, cfg)

	ids := mustAdd(t, r, testProject, video("A", 60))
	fs := FeatureSetFrom(store.snapshot().features[ids[0]])
	if !fs.Has(CategoryEmbedding, "emb:mid") {
		t.Errorf("features = %v, want emb:mid", fs.Features())
	}
}

func TestRecommend_ColdStart(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)
	ids := mustAdd(t, r, testProject, video("C", 60), video("A", 700), video("B", 4000))

	resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 3})

	if resp.Outcome != OutcomeColdStart {
		t.Errorf("Outcome = %q, want cold_start", resp.Outcome)
	}
	for _, item := range resp.Items {
		if item.Score != 0 {
			t.Errorf("item %d scored %v under cold start, want 0", item.ID, item.Score)
		}
	}
	if !reflect.DeepEqual(itemIDs(resp.Items), ids) {
		t.Errorf("cold start order = %v, want insertion order %v", itemIDs(resp.Items), ids)
	}
}

func TestRecommend_NoCandidates(t *testing.T) {
	r := newTestPapers(t, newMemStore(), nil, nil)

	resp := mustRecommend(t, r, Request{ProjectID: testProject})
	if resp.Outcome != OutcomeNoCandidates || len(resp.Items) != 0 || resp.Items == nil {
		t.Errorf("Recommend() = %+v, want empty no_candidates response", resp)
	}
}

func TestRecommend_LikesAndDislikes(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)
	ids := mustAdd(t, r, testProject, video("Liked", 420), video("Similar", 500), video("Disliked", 4000))
	ctx := context.Background()

	if _, err := r.RecordPreference(ctx, testProject, ids[0], true); err != nil {
		t.Fatal(err)
	}

	resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 3, IncludeLikes: boolPtr(true)})
	// duration 0.15 + type 0.05 for dur:s items, type only for the long one
	wantScores := []float64{0.2, 0.2, 0.05}
	if !reflect.DeepEqual(itemIDs(resp.Items), ids) {
		t.Fatalf("order = %v, want %v", itemIDs(resp.Items), ids)
	}
	for i, want := range wantScores {
		if math.Abs(resp.Items[i].Score-want) > epsilon {
			t.Errorf("item %d score = %v, want %v", resp.Items[i].ID, resp.Items[i].Score, want)
		}
		if resp.Items[i].Rank != i+1 {
			t.Errorf("item %d rank = %d, want %d", resp.Items[i].ID, resp.Items[i].Rank, i+1)
		}
	}
	if resp.Outcome != OutcomeRanked || resp.Metadata.LikedItems != 1 {
		t.Errorf("Outcome = %q, LikedItems = %d", resp.Outcome, resp.Metadata.LikedItems)
	}
}

func TestRecommend_DislikesSuppress(t *testing.T) {
	store := newMemStore()
	r := newTestPapers(t, store, nil, nil)
	ids := mustAdd(t, r, testProject,
		paper("Liked", 2025, "Ada Lovelace"),
		paper("Same author", 2010, "Ada Lovelace"),
		paper("Disliked", 2010, "Charles Babbage"),
		paper("Like disliked", 2010, "Charles Babbage"),
	)
	ctx := context.Background()
	if _, err := r.RecordPreference(ctx, testProject, ids[0], true); err != nil {
		t.Fatal(err)
	}
	if _, err := r.RecordPreference(ctx, testProject, ids[2], false); err != nil {
		t.Fatal(err)
	}

	resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 4})
	scores := make(map[int64]float64)
	for _, item := range resp.Items {
		scores[item.ID] = item.Score
	}

	// pos matches author and type; neg matches year and type
	if got := scores[ids[1]]; math.Abs(got-(0.20-0.5*0.25)) > epsilon {
		t.Errorf("same author score = %v, want 0.075", got)
	}
	if got := scores[ids[3]]; got != 0 {
		t.Errorf("disliked look-alike score = %v, want 0", got)
	}
	if resp.Metadata.DislikedItems != 1 {
		t.Errorf("DislikedItems = %d, want 1", resp.Metadata.DislikedItems)
	}

	// lambda zero ignores dislikes entirely
	zero := 0.0
	resp = mustRecommend(t, r, Request{ProjectID: testProject, K: 4, Lambda: &zero})
	for _, item := range resp.Items {
		if item.ID == ids[3] && math.Abs(item.Score-0.05) > epsilon {
			t.Errorf("lambda=0 score = %v, want 0.05", item.Score)
		}
	}
}

func boolPtr(v bool) *bool { return &v }

func TestRecommend_IncludeLikesFalse(t *testing.T) {
	store := newMemStore()
	r := newTestPapers(t, store, nil, nil)
	ids := mustAdd(t, r, testProject, paper("A", 2024, "X"), paper("B", 2024, "X"))
	if _, err := r.RecordPreference(context.Background(), testProject, ids[0], true); err != nil {
		t.Fatal(err)
	}

	resp := mustRecommend(t, r, Request{ProjectID: testProject, IncludeLikes: boolPtr(false)})
	if resp.Outcome != OutcomeColdStart {
		t.Errorf("Outcome = %q, want cold_start", resp.Outcome)
	}
	for _, item := range resp.Items {
		if item.Score != 0 {
			t.Errorf("item %d score = %v, want 0", item.ID, item.Score)
		}
	}
}

func TestRecommend_NoReServingVideos(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)
	mustAdd(t, r, testProject, video("A", 60), video("B", 60), video("C", 60), video("D", 60), video("E", 60))

	seen := make(map[int64]bool)
	for round := 0; round < 2; round++ {
		resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 2})
		if len(resp.Items) != 2 {
			t.Fatalf("round %d returned %d items, want 2", round, len(resp.Items))
		}
		for _, item := range resp.Items {
			if seen[item.ID] {
				t.Errorf("round %d re-served item %d", round, item.ID)
			}
			if !item.Served {
				t.Errorf("returned item %d not flagged served", item.ID)
			}
			seen[item.ID] = true
		}
	}

	resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 2})
	if len(resp.Items) != 1 || seen[resp.Items[0].ID] {
		t.Errorf("third round = %v, want the one unserved item", itemIDs(resp.Items))
	}

	resp = mustRecommend(t, r, Request{ProjectID: testProject, K: 2})
	if resp.Outcome != OutcomeNoCandidates {
		t.Errorf("Outcome = %q, want no_candidates once all are served", resp.Outcome)
	}
}

func TestRecommend_PapersAreNotServed(t *testing.T) {
	store := newMemStore()
	r := newTestPapers(t, store, nil, nil)
	mustAdd(t, r, testProject, paper("A", 2020), paper("B", 2020))

	first := mustRecommend(t, r, Request{ProjectID: testProject, K: 1})
	second := mustRecommend(t, r, Request{ProjectID: testProject, K: 1})
	if first.Items[0].ID != second.Items[0].ID {
		t.Errorf("paper ranking changed between identical requests: %d vs %d", first.Items[0].ID, second.Items[0].ID)
	}
	for _, item := range store.snapshot().items {
		if item.Served {
			t.Errorf("paper %d flagged served", item.ID)
		}
	}
}

func TestRecommend_RecordsRankingWithoutTouchingFeatures(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)
	ids := mustAdd(t, r, testProject, video("A", 60), video("B", 4000), video("C", 60))
	if _, err := r.RecordPreference(context.Background(), testProject, ids[0], true); err != nil {
		t.Fatal(err)
	}
	before := store.snapshot().features

	mustRecommend(t, r, Request{ProjectID: testProject, K: 1})

	after := store.snapshot()
	if !reflect.DeepEqual(before, after.features) {
		t.Error("Recommend() modified feature rows")
	}
	for _, id := range ids {
		item := after.items[id]
		if item.LastScore == nil || item.RankPosition == nil {
			t.Errorf("item %d has no recorded ranking", id)
		}
	}
	if *after.items[ids[1]].RankPosition != 3 {
		t.Errorf("long video rank = %d, want 3", *after.items[ids[1]].RankPosition)
	}
	if !after.items[ids[0]].Served || after.items[ids[2]].Served {
		t.Error("only the top-1 video should be served")
	}
}

func TestRecommend_RequestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DefaultK = 2
	cfg.MaxK = 3
	store := newMemStore()
	r := newTestPapers(t, store, nil, cfg)
	mustAdd(t, r, testProject, paper("A", 2020), paper("B", 2020), paper("C", 2020), paper("D", 2020))

	if resp := mustRecommend(t, r, Request{ProjectID: testProject}); len(resp.Items) != 2 {
		t.Errorf("default K returned %d items, want 2", len(resp.Items))
	}
	resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 50})
	if len(resp.Items) != 3 || resp.Metadata.K != 3 {
		t.Errorf("capped K returned %d items (K=%d), want 3", len(resp.Items), resp.Metadata.K)
	}
	if resp.Metadata.RequestID == "" || resp.Metadata.Lambda != 0.5 || !resp.Metadata.IncludeLikes {
		t.Errorf("unexpected metadata %+v", resp.Metadata)
	}
	if resp.TotalCandidates != 4 {
		t.Errorf("TotalCandidates = %d, want 4", resp.TotalCandidates)
	}

	neg := -0.1
	if _, err := r.Recommend(context.Background(), Request{ProjectID: testProject, Lambda: &neg}); !IsValidation(err) {
		t.Errorf("negative lambda error = %v, want validation", err)
	}
}

func TestRecommend_PersistenceFailure(t *testing.T) {
	for _, method := range []string{"Preferences", "ListItems", "LoadFeatures", "RecordRanking", "MarkServed"} {
		t.Run(method, func(t *testing.T) {
			store := newMemStore()
			r := newTestVideos(t, store, nil, nil)
			ids := mustAdd(t, r, testProject, video("A", 60), video("B", 60))
			if _, err := r.RecordPreference(context.Background(), testProject, ids[0], true); err != nil {
				t.Fatal(err)
			}

			store.failOn = method
			if _, err := r.Recommend(context.Background(), Request{ProjectID: testProject, K: 1}); !IsPersistence(err) {
				t.Fatalf("Recommend() error = %v, want persistence", err)
			}
			for _, item := range store.snapshot().items {
				if item.Served || item.LastScore != nil {
					t.Errorf("item %d was modified by a failed request", item.ID)
				}
			}
		})
	}
}

func TestRecommend_ParallelMatchesSequential(t *testing.T) {
	store := newMemStore()
	seqCfg := DefaultConfig()
	seqCfg.ParallelThreshold = 0
	parCfg := DefaultConfig()
	parCfg.ParallelThreshold = 2
	parCfg.Parallelism = 3

	seq := newTestPapers(t, store, nil, seqCfg)
	par := newTestPapers(t, store, nil, parCfg)

	var cands []Candidate
	authors := []string{"A", "B", "C"}
	for i := 0; i < 30; i++ {
		cands = append(cands, paper(fmt.Sprintf("Paper %d", i), 2000+i%25, authors[i%3]))
	}
	ids := mustAdd(t, seq, testProject, cands...)
	if _, err := seq.RecordPreference(context.Background(), testProject, ids[4], true); err != nil {
		t.Fatal(err)
	}
	if _, err := seq.RecordPreference(context.Background(), testProject, ids[7], false); err != nil {
		t.Fatal(err)
	}

	a := mustRecommend(t, seq, Request{ProjectID: testProject, K: 30})
	b := mustRecommend(t, par, Request{ProjectID: testProject, K: 30})

	if !reflect.DeepEqual(itemIDs(a.Items), itemIDs(b.Items)) {
		t.Fatalf("parallel order %v differs from sequential %v", itemIDs(b.Items), itemIDs(a.Items))
	}
	for i := range a.Items {
		if a.Items[i].Score != b.Items[i].Score {
			t.Errorf("item %d: parallel score %v != sequential %v", a.Items[i].ID, b.Items[i].Score, a.Items[i].Score)
		}
	}
}

func TestRecommend_Eligibility(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paper.Eligibility = "!has(item.year) || item.year >= 2020"
	store := newMemStore()
	r := newTestPapers(t, store, nil, cfg)
	ids := mustAdd(t, r, testProject,
		paper("Old", 2001),
		&PaperCandidate{Title: "Undated"},
		paper("New", 2024),
	)

	resp := mustRecommend(t, r, Request{ProjectID: testProject, K: 10})
	got := itemIDs(resp.Items)
	want := []int64{ids[1], ids[2]}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("eligible items = %v, want %v", got, want)
	}
	if resp.TotalCandidates != 2 {
		t.Errorf("TotalCandidates = %d, want 2", resp.TotalCandidates)
	}
}

func TestRecordPreference(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)
	ids := mustAdd(t, r, testProject, video("A", 60))
	ctx := context.Background()

	pref, err := r.RecordPreference(ctx, testProject, ids[0], true)
	if err != nil {
		t.Fatalf("RecordPreference() error = %v", err)
	}
	if pref.ID == 0 || !pref.Liked || pref.Kind != KindVideo || !pref.CreatedAt.Equal(testNow) {
		t.Errorf("unexpected preference %+v", pref)
	}

	tests := []struct {
		name    string
		project int64
		item    int64
	}{
		{"unknown item", testProject, 999},
		{"item of another project", testProject + 1, ids[0]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.RecordPreference(ctx, tt.project, tt.item, false)
			if !IsNotFound(err) {
				t.Errorf("RecordPreference() error = %v, want not found", err)
			}
		})
	}

	papers := newTestPapers(t, store, nil, nil)
	if _, err := papers.RecordPreference(ctx, testProject, ids[0], true); !IsNotFound(err) {
		t.Errorf("paper preference on a video = %v, want not found", err)
	}
	if got := len(store.snapshot().prefs); got != 1 {
		t.Errorf("store has %d preferences, want 1", got)
	}
}

func TestUpdateFeatures(t *testing.T) {
	store := newMemStore()
	embeddings := newMemEmbeddings()
	provider := &fakeProvider{fallback: []float32{1, 0}}
	cache := NewEmbeddingCache(provider, embeddings, zerolog.Nop())
	r := newTestVideos(t, store, cache, nil)
	ctx := context.Background()

	ids := mustAdd(t, r, testProject, video("A", 60), video("B", 4000))
	for _, id := range ids {
		if len(FeatureSetFrom(store.snapshot().features[id]).Values(CategoryEmbedding)) != 0 {
			t.Fatalf("item %d has emb tags before the project is embedded", id)
		}
	}

	if err := cache.EmbedProject(ctx, testProject, "graph learning"); err != nil {
		t.Fatalf("EmbedProject() error = %v", err)
	}

	n, err := r.UpdateFeatures(ctx, testProject)
	if err != nil || n != 2 {
		t.Fatalf("UpdateFeatures() = %d, %v; want 2, nil", n, err)
	}
	first := store.snapshot().features
	for _, id := range ids {
		if !FeatureSetFrom(first[id]).Has(CategoryEmbedding, "emb:excellent") {
			t.Errorf("item %d features = %v, want emb:excellent", id, first[id])
		}
	}

	if _, err := r.UpdateFeatures(ctx, testProject); err != nil {
		t.Fatalf("second UpdateFeatures() error = %v", err)
	}
	if !reflect.DeepEqual(first, store.snapshot().features) {
		t.Error("UpdateFeatures() is not idempotent")
	}
}

func TestUpdateFeatures_Failure(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)
	mustAdd(t, r, testProject, video("A", 60))

	store.failOn = "ReplaceFeatures"
	if _, err := r.UpdateFeatures(context.Background(), testProject); !IsPersistence(err) {
		t.Errorf("UpdateFeatures() error = %v, want persistence", err)
	}
}

func TestUpdateAllFeatures(t *testing.T) {
	store := newMemStore()
	r := newTestPapers(t, store, nil, nil)
	mustAdd(t, r, 1, paper("A", 2020), paper("B", 2021))
	mustAdd(t, r, 2, paper("C", 2022))

	n, err := r.UpdateAllFeatures(context.Background())
	if err != nil || n != 3 {
		t.Errorf("UpdateAllFeatures() = %d, %v; want 3, nil", n, err)
	}

	store.failOn = "ListItems"
	n, err = r.UpdateAllFeatures(context.Background())
	if err == nil || n != 0 {
		t.Errorf("UpdateAllFeatures() = %d, %v; want 0 and an error", n, err)
	}
	if !IsPersistence(err) {
		t.Errorf("joined error %v should carry persistence errors", err)
	}
}

func TestGetItem(t *testing.T) {
	store := newMemStore()
	r := newTestVideos(t, store, nil, nil)
	ids := mustAdd(t, r, testProject, video("A", 60))

	item, err := r.GetItem(context.Background(), testProject, ids[0])
	if err != nil || item.Title != "A" {
		t.Errorf("GetItem() = %+v, %v", item, err)
	}
	if _, err := r.GetItem(context.Background(), testProject, 42); !IsNotFound(err) {
		t.Errorf("GetItem() error = %v, want not found", err)
	}
}
