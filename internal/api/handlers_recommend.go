// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// FeatureRefreshResult reports how many items had their features rebuilt.
type FeatureRefreshResult struct {
	Kind    string `json:"kind,omitempty"`
	Updated int    `json:"updated"`
}

// Recommend ranks a project's unseen candidates.
//
// Method: POST
// Path: /api/v1/projects/{projectID}/{kind}/recommendations
//
// The body is optional; see RecommendRequest.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r, projectID, engine, ok := h.projectScope(w, r)
	if !ok {
		return
	}

	var body RecommendRequest
	if !decodeBody(w, r, &body, true) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	resp, err := engine.Recommend(ctx, recommend.Request{
		ProjectID:    projectID,
		K:            body.K,
		IncludeLikes: body.IncludeLikes,
		Lambda:       body.Lambda,
		RequestID:    logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, resp, start)
}

// RecordPreference records a like or dislike for one item.
//
// Method: POST
// Path: /api/v1/projects/{projectID}/{kind}/items/{itemID}/preference
func (h *Handler) RecordPreference(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r, projectID, engine, ok := h.projectScope(w, r)
	if !ok {
		return
	}
	itemID, err := parseID(r, "itemID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	var body PreferenceRequest
	if !decodeBody(w, r, &body, false) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	pref, err := engine.RecordPreference(ctx, projectID, itemID, *body.Liked)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusCreated, pref, start)
}

// RefreshProjectFeatures rebuilds the stored features of a project's items.
//
// Method: POST
// Path: /api/v1/projects/{projectID}/{kind}/features/refresh
func (h *Handler) RefreshProjectFeatures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r, projectID, engine, ok := h.projectScope(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	updated, err := engine.UpdateFeatures(ctx, projectID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, FeatureRefreshResult{Kind: string(engine.Kind()), Updated: updated}, start)
}

// RefreshAllFeatures rebuilds the stored features of every item of every
// configured kind. Engines are refreshed in turn; the first failure aborts
// the request after the preceding kinds have been refreshed.
//
// Method: POST
// Path: /api/v1/features/refresh
func (h *Handler) RefreshAllFeatures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	results := make([]FeatureRefreshResult, 0, len(h.engines))
	for _, kind := range []recommend.ItemKind{recommend.KindPaper, recommend.KindVideo} {
		engine, ok := h.engines[kind]
		if !ok {
			continue
		}
		updated, err := engine.UpdateAllFeatures(ctx)
		if err != nil {
			respondEngineError(w, r, err)
			return
		}
		results = append(results, FeatureRefreshResult{Kind: string(kind), Updated: updated})
	}

	logging.Ctx(r.Context()).Info().Interface("results", results).Msg("Features refreshed")
	respondSuccess(w, r, http.StatusOK, results, start)
}
