// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/studyfeed/internal/metrics"
)

// Outcome describes how a ranking was produced.
type Outcome string

const (
	// OutcomeRanked means candidates were scored against a non-empty profile.
	OutcomeRanked Outcome = "ranked"

	// OutcomeColdStart means the positive profile was empty, so every
	// candidate scored from the negative term alone (zero without dislikes).
	// Results are then ordered by item ID.
	OutcomeColdStart Outcome = "cold_start"

	// OutcomeNoCandidates means no eligible candidate exists.
	OutcomeNoCandidates Outcome = "no_candidates"
)

// Request is a ranking request for one project.
type Request struct {
	ProjectID int64 `json:"project_id"`

	// K is the number of results. Zero means Config.DefaultK; values above
	// Config.MaxK are capped.
	K int `json:"k,omitempty"`

	// IncludeLikes builds the positive profile from liked items. Nil means true.
	IncludeLikes *bool `json:"include_likes,omitempty"`

	// Lambda overrides Config.Lambda when set.
	Lambda *float64 `json:"lambda,omitempty"`

	// RequestID is propagated to logs; generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// ScoredItem is a ranked item annotated with its score.
type ScoredItem struct {
	Item

	// Score is max(0, Jpos - lambda*Jneg).
	Score float64 `json:"calculated_score"`

	// Rank is the 1-based position in the ranking.
	Rank int `json:"rank"`

	// Breakdown holds the weighted positive Jaccard term per category.
	Breakdown map[Category]float64 `json:"breakdown,omitempty"`
}

// Response is the result of a ranking request.
type Response struct {
	Items           []ScoredItem     `json:"items"`
	Outcome         Outcome          `json:"outcome"`
	TotalCandidates int              `json:"total_candidates"`
	Metadata        ResponseMetadata `json:"metadata"`
}

// ResponseMetadata describes how a response was generated.
type ResponseMetadata struct {
	RequestID     string    `json:"request_id"`
	Kind          ItemKind  `json:"kind"`
	K             int       `json:"k"`
	Lambda        float64   `json:"lambda"`
	IncludeLikes  bool      `json:"include_likes"`
	LikedItems    int       `json:"liked_items"`
	DislikedItems int       `json:"disliked_items"`
	GeneratedAt   time.Time `json:"generated_at"`
	LatencyMS     int64     `json:"latency_ms"`
}

// SkippedCandidate reports a candidate rejected at the ingestion boundary.
type SkippedCandidate struct {
	Index  int    `json:"index"`
	Title  string `json:"title,omitempty"`
	Reason string `json:"reason"`
}

// IngestResult is the result of AddCandidates.
type IngestResult struct {
	// ItemIDs are the IDs of newly created items, in input order.
	ItemIDs []int64 `json:"item_ids"`

	// Duplicates are the IDs of existing items matched by title.
	Duplicates []int64 `json:"duplicates,omitempty"`

	Skipped []SkippedCandidate `json:"skipped,omitempty"`
}

// Recommender ranks items of one kind for projects.
type Recommender struct {
	kind          ItemKind
	store         Store
	cache         *EmbeddingCache
	config        *Config
	weights       Weights
	eligibility   *EligibilityFilter
	excludeServed bool
	now           func() time.Time
	logger        zerolog.Logger
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithClock replaces the clock used for feature extraction and timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Recommender) {
		r.now = now
	}
}

// WithServedExclusion controls whether items already surfaced are left out
// of later rankings and whether returned items are marked served.
func WithServedExclusion(exclude bool) Option {
	return func(r *Recommender) {
		r.excludeServed = exclude
	}
}

// NewRecommender creates a Recommender for kind. A nil cache disables the
// emb category.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommender(kind ItemKind, store Store, cache *EmbeddingCache, cfg *Config, logger zerolog.Logger, opts ...Option) (*Recommender, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.Clone()

	kindCfg := cfg.ForKind(kind)
	filter, err := NewEligibilityFilter(kindCfg.Eligibility)
	if err != nil {
		return nil, fmt.Errorf("invalid %s eligibility: %w", kind, err)
	}

	r := &Recommender{
		kind:        kind,
		store:       store,
		cache:       cache,
		config:      cfg,
		weights:     kindCfg.Weights,
		eligibility: filter,
		now:         func() time.Time { return time.Now().UTC() },
		logger:      logger.With().Str("component", "recommend").Str("kind", string(kind)).Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewPaperRecommender creates the paper Recommender. Papers are ranked
// over every item of the project.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPaperRecommender(store Store, cache *EmbeddingCache, cfg *Config, logger zerolog.Logger, opts ...Option) (*Recommender, error) {
	return NewRecommender(KindPaper, store, cache, cfg, logger, append([]Option{WithServedExclusion(false)}, opts...)...)
}

// NewVideoRecommender creates the video Recommender. Videos already
// surfaced are never ranked again.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewVideoRecommender(store Store, cache *EmbeddingCache, cfg *Config, logger zerolog.Logger, opts ...Option) (*Recommender, error) {
	return NewRecommender(KindVideo, store, cache, cfg, logger, append([]Option{WithServedExclusion(true)}, opts...)...)
}

// Kind returns the item kind ranked by r.
func (r *Recommender) Kind() ItemKind {
	return r.kind
}

// Config returns a copy of the configuration.
func (r *Recommender) Config() *Config {
	return r.config.Clone()
}

// withTx runs fn in a transaction, rolling back when fn or the commit
// fails. Errors that are not already *Error are reported as persistence
// errors.
func (r *Recommender) withTx(ctx context.Context, op string, fn func(tx Tx) error) (err error) {
	tx, err := r.store.BeginTx(ctx)
	if err != nil {
		return persistenceError(op, fmt.Errorf("failed to begin transaction: %w", err))
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error().Err(rbErr).AnErr("original_error", err).Str("op", op).Msg("Transaction rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		var e *Error
		if !errors.As(err, &e) {
			err = persistenceError(op, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return persistenceError(op, fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// featureSet extracts the features of item and adds the emb bucket for
// the given similarity.
func (r *Recommender) featureSet(item *Item, now time.Time, sim float64, hasSim bool) FeatureSet {
	fs := ExtractFeatures(item, now)
	if hasSim {
		fs.Add(CategoryEmbedding, SimilarityBucket(sim))
	} else if r.config.MissingEmbedding == MissingEmbeddingDefaultMid {
		fs.Add(CategoryEmbedding, "emb:mid")
	}
	return fs
}

// pendingItem is a validated candidate waiting to be inserted.
type pendingItem struct {
	item     Item
	features FeatureSet
	vector   []float32
}

// AddCandidates accepts candidates into the project's item set. Candidates
// whose title already exists in the project are reported as duplicates.
// Malformed candidates are skipped. A persistence failure aborts the call
// and rolls back every write.
//
// Embeddings are computed before the write transaction opens, and the new
// item vectors are stored after it commits, so the embedding store never
// competes with an open transaction for a connection.
func (r *Recommender) AddCandidates(ctx context.Context, projectID int64, candidates []Candidate) (*IngestResult, error) {
	const op = "add candidates"
	start := time.Now()
	now := r.now()
	result := &IngestResult{ItemIDs: make([]int64, 0, len(candidates))}

	pending := make([]pendingItem, 0, len(candidates))
	for i, c := range candidates {
		if err := ValidateCandidate(c); err != nil {
			result.Skipped = append(result.Skipped, r.skip(i, c, err))
			continue
		}
		if c.Kind() != r.kind {
			result.Skipped = append(result.Skipped, r.skip(i, c,
				fmt.Errorf("candidate kind %q does not match %q", c.Kind(), r.kind)))
			continue
		}
		item := c.toItem(projectID)
		item.CreatedAt = now
		pending = append(pending, pendingItem{item: item})
	}

	if err := r.embedPending(ctx, op, projectID, pending, now); err != nil {
		r.logger.Error().Err(err).Int64("project_id", projectID).Int("candidates", len(candidates)).Msg("add candidates failed")
		return nil, err
	}

	var inserted []int
	err := r.withTx(ctx, op, func(tx Tx) error {
		for i := range pending {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := &pending[i]

			existing, err := tx.FindItemByTitle(ctx, projectID, r.kind, p.item.Title)
			switch {
			case err == nil:
				result.Duplicates = append(result.Duplicates, existing)
				continue
			case !errors.Is(err, ErrNotFound):
				return fmt.Errorf("find item by title: %w", err)
			}

			id, err := tx.InsertItem(ctx, &p.item)
			if err != nil {
				return fmt.Errorf("insert item: %w", err)
			}
			p.item.ID = id

			if err := tx.ReplaceFeatures(ctx, r.kind, id, p.features.Features()); err != nil {
				return fmt.Errorf("replace features of item %d: %w", id, err)
			}
			result.ItemIDs = append(result.ItemIDs, id)
			inserted = append(inserted, i)
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("project_id", projectID).Int("candidates", len(candidates)).Msg("add candidates failed")
		return nil, err
	}

	for _, i := range inserted {
		if pending[i].vector != nil {
			r.cache.storeVector(ctx, pending[i].item.Key(), pending[i].vector)
		}
	}

	metrics.RecordIngestion(string(r.kind), len(result.ItemIDs), len(result.Duplicates), len(result.Skipped), time.Since(start))
	r.logger.Info().
		Int64("project_id", projectID).
		Int("inserted", len(result.ItemIDs)).
		Int("duplicates", len(result.Duplicates)).
		Int("skipped", len(result.Skipped)).
		Dur("duration", time.Since(start)).
		Msg("candidates added")

	return result, nil
}

// embedPending computes the features of every pending item. Titles
// already stored in the project, or repeated within the batch, are not
// sent to the provider.
func (r *Recommender) embedPending(ctx context.Context, op string, projectID int64, pending []pendingItem, now time.Time) error {
	var projectVec []float32
	hasProject := false
	if len(pending) > 0 && r.cache.canEmbed() {
		projectVec, hasProject = r.cache.projectVector(ctx, projectID)
	}

	known := make(map[string]bool)
	if hasProject {
		err := r.withTx(ctx, op, func(tx Tx) error {
			for i := range pending {
				title := pending[i].item.Title
				_, err := tx.FindItemByTitle(ctx, projectID, r.kind, title)
				switch {
				case err == nil:
					known[title] = true
				case !errors.Is(err, ErrNotFound):
					return fmt.Errorf("find item by title: %w", err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	for i := range pending {
		if err := ctx.Err(); err != nil {
			return persistenceError(op, err)
		}
		p := &pending[i]

		var sim float64
		hasSim := false
		if hasProject && !known[p.item.Title] {
			known[p.item.Title] = true
			if vec, ok := r.cache.embedText(ctx, p.item.Title, p.item.Text()); ok {
				p.vector = vec
				sim, hasSim = r.cache.compare(projectVec, vec, p.item.Title)
			} else {
				metrics.EmbeddingDegraded.Inc()
			}
		}
		p.features = r.featureSet(&p.item, now, sim, hasSim)
	}
	return nil
}

func (r *Recommender) skip(index int, c Candidate, err error) SkippedCandidate {
	s := SkippedCandidate{Index: index, Reason: err.Error()}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		s.Reason = e.Message
	}
	switch v := c.(type) {
	case *PaperCandidate:
		if v != nil {
			s.Title = v.Title
		}
	case *VideoCandidate:
		if v != nil {
			s.Title = v.Title
		}
	}
	r.logger.Warn().Int("index", index).Str("title", s.Title).Str("reason", s.Reason).Msg("candidate skipped")
	return s
}

// prepareRequest applies defaults and validates req.
func (r *Recommender) prepareRequest(req Request) (Request, error) {
	if req.K <= 0 {
		req.K = r.config.DefaultK
	}
	if req.K > r.config.MaxK {
		req.K = r.config.MaxK
	}
	if req.Lambda == nil {
		lambda := r.config.Lambda
		req.Lambda = &lambda
	} else if *req.Lambda < 0 {
		return req, newError(CodeValidation, "recommend", fmt.Sprintf("lambda must be non-negative, got %f", *req.Lambda), nil)
	}
	if req.IncludeLikes == nil {
		include := true
		req.IncludeLikes = &include
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}
	return req, nil
}

// Recommend builds the project's profiles, scores every eligible
// candidate and returns the top K. The score and rank of every scored
// candidate are recorded; when served exclusion is on, the returned items
// are marked served. Feature rows are never modified.
func (r *Recommender) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	req, err := r.prepareRequest(req)
	if err != nil {
		metrics.RecordRecommend(string(r.kind), "error", 0, time.Since(start))
		return nil, err
	}

	logger := r.logger.With().
		Str("request_id", req.RequestID).
		Int64("project_id", req.ProjectID).
		Logger()

	resp := &Response{
		Items: []ScoredItem{},
		Metadata: ResponseMetadata{
			RequestID:    req.RequestID,
			Kind:         r.kind,
			K:            req.K,
			Lambda:       *req.Lambda,
			IncludeLikes: *req.IncludeLikes,
			GeneratedAt:  r.now(),
		},
	}

	err = r.withTx(ctx, "recommend", func(tx Tx) error {
		profile, err := r.loadProfile(ctx, tx, req, &resp.Metadata)
		if err != nil {
			return err
		}

		candidates, err := r.eligibleCandidates(ctx, tx, req.ProjectID, logger)
		if err != nil {
			return err
		}
		resp.TotalCandidates = len(candidates)
		if len(candidates) == 0 {
			resp.Outcome = OutcomeNoCandidates
			return nil
		}

		ids := make([]int64, len(candidates))
		for i := range candidates {
			ids[i] = candidates[i].ID
		}
		features, err := tx.LoadFeatures(ctx, r.kind, ids)
		if err != nil {
			return fmt.Errorf("load candidate features: %w", err)
		}

		scored, err := r.scoreCandidates(ctx, profile, candidates, features, *req.Lambda)
		if err != nil {
			return err
		}
		rankItems(scored)

		entries := make([]RankingEntry, len(scored))
		for i := range scored {
			entries[i] = RankingEntry{ItemID: scored[i].ID, Score: scored[i].Score, Position: scored[i].Rank}
		}
		if err := tx.RecordRanking(ctx, r.kind, entries); err != nil {
			return fmt.Errorf("record ranking: %w", err)
		}

		top := scored
		if len(top) > req.K {
			top = top[:req.K]
		}
		for i := range top {
			score, rank := top[i].Score, top[i].Rank
			top[i].LastScore = &score
			top[i].RankPosition = &rank
		}

		if r.excludeServed {
			served := make([]int64, len(top))
			for i := range top {
				served[i] = top[i].ID
				top[i].Served = true
			}
			if err := tx.MarkServed(ctx, r.kind, served); err != nil {
				return fmt.Errorf("mark served: %w", err)
			}
		}

		resp.Items = top
		if profile.Empty() {
			resp.Outcome = OutcomeColdStart
		} else {
			resp.Outcome = OutcomeRanked
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("recommend failed")
		metrics.RecordRecommend(string(r.kind), "error", 0, time.Since(start))
		return nil, err
	}

	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	metrics.RecordRecommend(string(r.kind), string(resp.Outcome), resp.TotalCandidates, time.Since(start))

	logger.Debug().
		Str("outcome", string(resp.Outcome)).
		Int("candidates", resp.TotalCandidates).
		Int("returned", len(resp.Items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation completed")

	return resp, nil
}

// loadProfile builds the project's profile from its preference records.
func (r *Recommender) loadProfile(ctx context.Context, tx Tx, req Request, meta *ResponseMetadata) (*Profile, error) {
	prefs, err := tx.Preferences(ctx, req.ProjectID, r.kind)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	liked, disliked := SplitPreferences(prefs)
	meta.LikedItems = len(liked)
	meta.DislikedItems = len(disliked)

	if len(prefs) == 0 {
		return &Profile{Positive: NewFeatureSet()}, nil
	}

	ids := make([]int64, 0, len(liked)+len(disliked))
	ids = append(ids, liked...)
	ids = append(ids, disliked...)

	features, err := tx.LoadFeatures(ctx, r.kind, ids)
	if err != nil {
		return nil, fmt.Errorf("load profile features: %w", err)
	}

	return NewProfile(prefs, features, *req.IncludeLikes), nil
}

// eligibleCandidates lists the project's candidates that pass the built-in
// predicate and the eligibility expression. Expression failures keep the
// candidate.
func (r *Recommender) eligibleCandidates(ctx context.Context, tx Tx, projectID int64, logger zerolog.Logger) ([]Item, error) {
	items, err := tx.ListItems(ctx, ItemFilter{
		ProjectID:    projectID,
		Kind:         r.kind,
		UnservedOnly: r.excludeServed,
	})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if r.eligibility == nil {
		return items, nil
	}

	out := items[:0]
	for i := range items {
		ok, err := r.eligibility.Eligible(&items[i])
		if err != nil {
			logger.Warn().Err(err).Int64("item_id", items[i].ID).Msg("eligibility evaluation failed, keeping candidate")
			ok = true
		}
		if ok {
			out = append(out, items[i])
		}
	}
	return out, nil
}

// scoreCandidates scores every candidate. Above the configured threshold
// the work is spread over a bounded number of goroutines; results are
// written by index so ordering does not depend on scheduling.
func (r *Recommender) scoreCandidates(ctx context.Context, profile *Profile, items []Item, features map[int64]FeatureSet, lambda float64) ([]ScoredItem, error) {
	scored := make([]ScoredItem, len(items))
	scoreOne := func(i int) {
		fs := features[items[i].ID]
		scored[i] = ScoredItem{
			Item:      items[i],
			Score:     Score(profile.Positive, profile.Negative, fs, r.weights, lambda),
			Breakdown: Contributions(profile.Positive, fs, r.weights),
		}
	}

	if r.config.ParallelThreshold == 0 || len(items) < r.config.ParallelThreshold {
		for i := range items {
			scoreOne(i)
		}
		return scored, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Parallelism)
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scoreOne(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	return scored, nil
}

// rankItems sorts by score descending, then item ID ascending, and
// assigns 1-based ranks.
func rankItems(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
	for i := range items {
		items[i].Rank = i + 1
	}
}

// UpdateFeatures re-extracts and replaces the feature rows of every item
// of the project. It returns the number of items refreshed and is safe to
// repeat. Similarities are computed between the read and the write
// transactions.
func (r *Recommender) UpdateFeatures(ctx context.Context, projectID int64) (int, error) {
	const op = "update features"
	start := time.Now()
	now := r.now()

	var items []Item
	err := r.withTx(ctx, op, func(tx Tx) error {
		var err error
		items, err = tx.ListItems(ctx, ItemFilter{ProjectID: projectID, Kind: r.kind})
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("project_id", projectID).Msg("update features failed")
		return 0, err
	}

	projectVec, hasProject := r.cache.projectVector(ctx, projectID)
	sets := make([]FeatureSet, len(items))
	for i := range items {
		if err := ctx.Err(); err != nil {
			return 0, persistenceError(op, err)
		}
		var sim float64
		hasSim := false
		if hasProject {
			sim, hasSim = r.cache.similarityTo(ctx, projectVec, items[i].Key(), items[i].Text())
		}
		sets[i] = r.featureSet(&items[i], now, sim, hasSim)
	}

	err = r.withTx(ctx, op, func(tx Tx) error {
		for i := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := tx.ReplaceFeatures(ctx, r.kind, items[i].ID, sets[i].Features()); err != nil {
				return fmt.Errorf("replace features of item %d: %w", items[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error().Err(err).Int64("project_id", projectID).Msg("update features failed")
		return 0, err
	}

	refreshed := len(items)
	metrics.RecordFeatureRefresh(string(r.kind), refreshed, time.Since(start))
	r.logger.Info().Int64("project_id", projectID).Int("items", refreshed).Dur("duration", time.Since(start)).Msg("features updated")
	return refreshed, nil
}

// UpdateAllFeatures runs UpdateFeatures for every project owning items of
// r's kind. A failing project does not stop the others; all failures are
// returned joined.
func (r *Recommender) UpdateAllFeatures(ctx context.Context) (int, error) {
	var projects []int64
	err := r.withTx(ctx, "update all features", func(tx Tx) error {
		var err error
		projects, err = tx.ProjectIDs(ctx, r.kind)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	total := 0
	var errs []error
	for _, id := range projects {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		n, err := r.UpdateFeatures(ctx, id)
		if err != nil {
			errs = append(errs, fmt.Errorf("project %d: %w", id, err))
			continue
		}
		total += n
	}
	return total, errors.Join(errs...)
}

// RecordPreference records that the project liked or disliked an item.
// The item must exist in the project.
func (r *Recommender) RecordPreference(ctx context.Context, projectID, itemID int64, liked bool) (*Preference, error) {
	const op = "record preference"
	pref := &Preference{
		ProjectID: projectID,
		Kind:      r.kind,
		ItemID:    itemID,
		Liked:     liked,
		CreatedAt: r.now(),
	}

	err := r.withTx(ctx, op, func(tx Tx) error {
		if _, err := tx.GetItem(ctx, projectID, r.kind, itemID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return newError(CodeNotFound, op, fmt.Sprintf("%s %d does not exist in project %d", r.kind, itemID, projectID), err)
			}
			return fmt.Errorf("get item: %w", err)
		}

		id, err := tx.InsertPreference(ctx, pref)
		if err != nil {
			return fmt.Errorf("insert preference: %w", err)
		}
		pref.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().Int64("project_id", projectID).Int64("item_id", itemID).Bool("liked", liked).Msg("preference recorded")
	return pref, nil
}

// GetItem returns one item of the project.
func (r *Recommender) GetItem(ctx context.Context, projectID, itemID int64) (*Item, error) {
	const op = "get item"
	var item *Item
	err := r.withTx(ctx, op, func(tx Tx) error {
		var err error
		item, err = tx.GetItem(ctx, projectID, r.kind, itemID)
		if errors.Is(err, ErrNotFound) {
			return newError(CodeNotFound, op, fmt.Sprintf("%s %d does not exist in project %d", r.kind, itemID, projectID), err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}
