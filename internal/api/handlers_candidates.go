// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"bytes"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/recommend"
)

// candidateEnvelope is the object form of a candidate batch.
type candidateEnvelope struct {
	Candidates json.RawMessage `json:"candidates"`
}

// candidateBatch extracts the candidate array from a body that is either a
// bare JSON array or an object with a "candidates" array.
func candidateBatch(data []byte) ([]byte, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, false
	}
	if trimmed[0] == '[' {
		return trimmed, true
	}
	var env candidateEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil || len(env.Candidates) == 0 {
		return nil, false
	}
	return env.Candidates, true
}

// AddCandidates ingests a batch of paper or video candidates for a project.
//
// Method: POST
// Path: /api/v1/projects/{projectID}/{kind}/candidates
//
// Malformed candidates are reported under "skipped" and do not fail the
// batch. Candidates whose title already exists in the project are reported
// under "duplicates".
func (h *Handler) AddCandidates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r, projectID, engine, ok := h.projectScope(w, r)
	if !ok {
		return
	}

	data, err := readBody(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	batch, ok := candidateBatch(data)
	if !ok {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation,
			"Body must be a JSON array of candidates or an object with a \"candidates\" array", nil)
		return
	}

	candidates, err := recommend.DecodeCandidates(engine.Kind(), batch)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	result, err := engine.AddCandidates(ctx, projectID, candidates)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("kind", string(engine.Kind())).
		Int("received", len(candidates)).
		Int("added", len(result.ItemIDs)).
		Int("duplicates", len(result.Duplicates)).
		Int("skipped", len(result.Skipped)).
		Msg("Candidates ingested")

	status := http.StatusOK
	if len(result.ItemIDs) > 0 {
		status = http.StatusCreated
	}
	respondSuccess(w, r, status, result, start)
}

// GetItem returns one item of a project.
//
// Method: GET
// Path: /api/v1/projects/{projectID}/{kind}/items/{itemID}
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	item, err := engine.GetItem(ctx, projectID, itemID)
	if err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, item, start)
}
