// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

// Package validation provides struct validation using go-playground/validator v10.
//
// The package wraps a thread-safe singleton validator with human-readable
// error messages that convert to the API's VALIDATION_ERROR format. Field
// names in messages are taken from json tags, so they match the keys a
// client sent.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Error translation to human-readable messages
//   - APIError conversion matching the API error envelope
//   - The notblank custom tag
//
// # Quick Start
//
//	type PaperCandidate struct {
//	    Title string `json:"title" validate:"required,notblank,max=1000"`
//	    Year  *int   `json:"year" validate:"omitempty,min=1000,max=3000"`
//	}
//
//	if verr := validation.ValidateStruct(&c); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	}
//
// # Tags Used by Studyfeed
//
// String validations:
//   - required: Field must not be empty
//   - notblank: Field must contain a non-whitespace character
//   - max=n: Maximum length n characters
//   - url: Valid URL format
//
// Numeric validations:
//   - min=n, max=n: Value bounds (candidate years, counts, K)
//   - gte=n, lte=n: Inclusive bounds (lambda)
//
// # Error Types
//
// ValidationError represents a single field validation failure:
//
//	Field()   string      // json field name
//	Tag()     string      // Validation tag that failed
//	Param()   string      // Tag parameter (e.g., "1000" for max=1000)
//	Value()   interface{} // Actual value that failed
//	Error()   string      // Human-readable message
//
// RequestValidationError collects every failure of one struct. Its Error
// joins the messages with "; ".
//
// # Error Messages
//
//	required:  "title is required"
//	notblank:  "title must not be blank"
//	max:       "title must be at most 1000 characters"
//	min:       "year must be at least 1000"
//	url:       "url must be a valid URL"
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
