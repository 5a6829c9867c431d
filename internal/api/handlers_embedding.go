// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"net/http"
	"time"
)

// ProjectEmbeddingResult acknowledges a stored project embedding.
type ProjectEmbeddingResult struct {
	ProjectID int64 `json:"project_id"`
	Embedded  bool  `json:"embedded"`
}

// SetProjectEmbedding embeds the project description and stores the
// vector, replacing any previous one. Subsequent rankings use it for the
// embedding similarity category.
//
// Method: PUT
// Path: /api/v1/projects/{projectID}/embedding
func (h *Handler) SetProjectEmbedding(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.embedder == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeEmbeddingUnavailable,
			"No embedding provider is configured", nil)
		return
	}

	projectID, err := parseID(r, "projectID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	var body ProjectEmbeddingRequest
	if !decodeBody(w, r, &body, false) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	if err := h.embedder.EmbedProject(ctx, projectID, body.Text()); err != nil {
		respondEngineError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, ProjectEmbeddingResult{ProjectID: projectID, Embedded: true}, start)
}
