// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

// Request bodies validated with go-playground/validator tags. Candidate
// bodies are validated per candidate by the engine instead, so one bad
// candidate does not reject the batch.

// RecommendRequest is the optional body of the recommendations endpoint.
//
// Fields:
//   - K: number of results (0 = configured default, capped at the configured maximum)
//   - IncludeLikes: build the positive profile from likes (default true)
//   - Lambda: negative profile discount override (>= 0)
type RecommendRequest struct {
	K            int      `json:"k" validate:"min=0,max=10000"`
	IncludeLikes *bool    `json:"include_likes"`
	Lambda       *float64 `json:"lambda" validate:"omitempty,gte=0,lte=100"`
}

// PreferenceRequest records a like (true) or dislike (false).
type PreferenceRequest struct {
	Liked *bool `json:"liked" validate:"required"`
}

// ProjectEmbeddingRequest carries the project text that is embedded.
type ProjectEmbeddingRequest struct {
	Topic      string `json:"topic" validate:"required,notblank,max=2000"`
	Objective  string `json:"objective" validate:"max=10000"`
	Guidelines string `json:"guidelines" validate:"max=20000"`
}

// Text joins the non-empty parts of the project description.
func (r *ProjectEmbeddingRequest) Text() string {
	text := r.Topic
	for _, part := range []string{r.Objective, r.Guidelines} {
		if part != "" {
			text += "\n\n" + part
		}
	}
	return text
}
