// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/studyfeed/internal/validation"
)

// Candidate is a raw item fetched by an external retrieval service, not yet
// accepted into a project. Implemented by PaperCandidate and VideoCandidate.
type Candidate interface {
	Kind() ItemKind

	// toItem returns the normalized item for projectID.
	toItem(projectID int64) Item
}

// Author is a paper author. It decodes from either a JSON string or an
// object with a "name" field and always encodes as a string.
type Author struct {
	Name string
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		a.Name = ""
		return nil
	}

	if data[0] == '"' {
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("author: %w", err)
		}
		a.Name = strings.TrimSpace(name)
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("author must be a string or an object with a name: %w", err)
	}
	a.Name = strings.TrimSpace(obj.Name)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (a Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Name)
}

// PaperCandidate is a paper returned by a literature search.
type PaperCandidate struct {
	Title       string     `json:"title" validate:"required,notblank,max=1000"`
	Summary     string     `json:"summary,omitempty" validate:"max=20000"`
	URL         string     `json:"url,omitempty" validate:"omitempty,url"`
	Year        *int       `json:"year,omitempty" validate:"omitempty,min=1000,max=3000"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Authors     []Author   `json:"authors,omitempty" validate:"max=500"`
}

// Kind implements Candidate.
func (c *PaperCandidate) Kind() ItemKind { return KindPaper }

func (c *PaperCandidate) toItem(projectID int64) Item {
	item := Item{
		ProjectID:   projectID,
		Kind:        KindPaper,
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Summary),
		URL:         strings.TrimSpace(c.URL),
	}
	item.PublishedAt = c.PublishedAt
	item.PublishedYear = c.Year
	if item.PublishedYear == nil && c.PublishedAt != nil {
		y := c.PublishedAt.Year()
		item.PublishedYear = &y
	}
	for _, a := range c.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			item.Authors = append(item.Authors, name)
		}
	}
	return item
}

// VideoCandidate is a video returned by a video search.
type VideoCandidate struct {
	Title           string     `json:"title" validate:"required,notblank,max=1000"`
	Description     string     `json:"description,omitempty" validate:"max=20000"`
	URL             string     `json:"url,omitempty" validate:"omitempty,url"`
	DurationSeconds *int       `json:"duration_seconds,omitempty" validate:"omitempty,min=0"`
	ViewCount       *int64     `json:"view_count,omitempty" validate:"omitempty,min=0"`
	LikeCount       *int64     `json:"like_count,omitempty" validate:"omitempty,min=0"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// Kind implements Candidate.
func (c *VideoCandidate) Kind() ItemKind { return KindVideo }

func (c *VideoCandidate) toItem(projectID int64) Item {
	item := Item{
		ProjectID:   projectID,
		Kind:        KindVideo,
		Title:       strings.TrimSpace(c.Title),
		Description: strings.TrimSpace(c.Description),
		URL:         strings.TrimSpace(c.URL),
	}
	item.DurationSeconds = c.DurationSeconds
	item.ViewCount = c.ViewCount
	item.LikeCount = c.LikeCount
	item.PublishedAt = c.PublishedAt
	return item
}

// ValidateCandidate checks c at the ingestion boundary.
func ValidateCandidate(c Candidate) error {
	if c == nil {
		return newError(CodeValidation, "validate candidate", "candidate is nil", nil)
	}
	if !c.Kind().Valid() {
		return newError(CodeValidation, "validate candidate", fmt.Sprintf("unknown item kind %q", c.Kind()), nil)
	}
	if verr := validation.ValidateStruct(c); verr != nil {
		return newError(CodeValidation, "validate candidate", verr.Error(), verr)
	}
	return nil
}

// DecodeCandidates decodes a JSON array of candidates of the given kind.
func DecodeCandidates(kind ItemKind, data []byte) ([]Candidate, error) {
	switch kind {
	case KindPaper:
		var papers []*PaperCandidate
		if err := json.Unmarshal(data, &papers); err != nil {
			return nil, newError(CodeValidation, "decode candidates", "malformed paper candidates", err)
		}
		out := make([]Candidate, len(papers))
		for i, p := range papers {
			out[i] = p
		}
		return out, nil
	case KindVideo:
		var videos []*VideoCandidate
		if err := json.Unmarshal(data, &videos); err != nil {
			return nil, newError(CodeValidation, "decode candidates", "malformed video candidates", err)
		}
		out := make([]Candidate, len(videos))
		for i, v := range videos {
			out[i] = v
		}
		return out, nil
	default:
		return nil, newError(CodeValidation, "decode candidates", fmt.Sprintf("unknown item kind %q", kind), nil)
	}
}
