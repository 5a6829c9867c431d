// Studyfeed - Paper and Video Recommendations for Research Projects
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/studyfeed

package recommend

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an engine error.
type ErrorCode string

// Error codes returned across the engine boundary.
const (
	// CodeValidation marks a malformed candidate, request or configuration.
	CodeValidation ErrorCode = "validation"

	// CodePersistence marks a failed store read, write or transaction.
	CodePersistence ErrorCode = "persistence"

	// CodeProvider marks a failed embedding provider call. It is logged and
	// degraded locally and never returned by the Recommender.
	CodeProvider ErrorCode = "provider"

	// CodeNotFound marks a reference to an entity that does not exist.
	CodeNotFound ErrorCode = "not_found"
)

// ErrNotFound is returned by stores when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// Error is the structured error returned by the engine.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, op, message string, err error) *Error {
	return &Error{Code: code, Op: op, Message: message, Err: err}
}

func persistenceError(op string, err error) *Error {
	return newError(CodePersistence, op, "", err)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || CodeOf(err) == CodeNotFound
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	return CodeOf(err) == CodeValidation
}

// IsPersistence reports whether err is a persistence error.
func IsPersistence(err error) bool {
	return CodeOf(err) == CodePersistence
}
