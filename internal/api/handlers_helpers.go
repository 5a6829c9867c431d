// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/studyfeed/internal/logging"
	"github.com/tomtom215/studyfeed/internal/models"
	"github.com/tomtom215/studyfeed/internal/recommend"
	"github.com/tomtom215/studyfeed/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeValidation           = "VALIDATION_ERROR"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited          = "RATE_LIMIT_EXCEEDED"
	ErrCodeDatabase             = "DATABASE_ERROR"
	ErrCodeEmbeddingUnavailable = "EMBEDDING_UNAVAILABLE"
	ErrCodeTimeout              = "TIMEOUT"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// maxBodyBytes bounds request bodies; candidate batches are the largest.
const maxBodyBytes = 8 << 20

// sanitizeLogValue removes control characters from strings to prevent log injection attacks.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusSuccess,
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError sends an error response
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, err error) {
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: models.StatusError,
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondEngineError maps an engine error to an HTTP status by its code.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var engineErr *recommend.Error
	message := err.Error()
	if errors.As(err, &engineErr) && engineErr.Message != "" {
		message = engineErr.Message
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", err)
	case recommend.IsValidation(err):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, message, nil)
	case recommend.IsNotFound(err):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, message, nil)
	case recommend.CodeOf(err) == recommend.CodeProvider:
		respondError(w, r, http.StatusBadGateway, ErrCodeEmbeddingUnavailable, message, err)
	case recommend.IsPersistence(err):
		respondError(w, r, http.StatusInternalServerError, ErrCodeDatabase, "A database error occurred", err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
	}
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if validation fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// readBody reads at most maxBodyBytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, fmt.Errorf("read request body: %w", err)
	}
	return data, nil
}

// decodeBody decodes a JSON object body into v and validates it. An empty
// body leaves v unchanged when allowEmpty is set. It writes the error
// response and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}, allowEmpty bool) bool {
	data, err := readBody(w, r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return false
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		if !allowEmpty {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Request body is required", nil)
			return false
		}
	} else {
		dec := json.NewDecoder(strings.NewReader(string(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(v); err != nil {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Malformed JSON body: "+err.Error(), nil)
			return false
		}
	}

	if apiErr := validateRequest(v); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status: models.StatusError,
			Metadata: models.Metadata{
				Timestamp: time.Now(),
				RequestID: logging.RequestIDFromContext(r.Context()),
			},
			Error: apiErr,
		})
		return false
	}
	return true
}

// parseID parses a positive int64 URL parameter.
func parseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

// parseKind accepts "paper", "papers", "video" and "videos".
func parseKind(raw string) (recommend.ItemKind, bool) {
	return recommend.ParseItemKind(strings.TrimSuffix(strings.ToLower(raw), "s"))
}

// projectScope resolves the project ID and engine of a
// /projects/{projectID}/{kind}/... route and adds the project ID to the
// logging context. It writes the error response and returns false on
// failure.
func (h *Handler) projectScope(w http.ResponseWriter, r *http.Request) (*http.Request, int64, Engine, bool) {
	projectID, err := parseID(r, "projectID")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return r, 0, nil, false
	}

	kind, ok := parseKind(chi.URLParam(r, "kind"))
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown item kind "+strconv.Quote(chi.URLParam(r, "kind")), nil)
		return r, 0, nil, false
	}
	engine, ok := h.engines[kind]
	if !ok {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("No %s recommender is configured", kind), nil)
		return r, 0, nil, false
	}

	r = r.WithContext(logging.ContextWithProjectID(r.Context(), projectID))
	return r, projectID, engine, true
}
