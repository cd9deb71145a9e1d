// Package apperr holds the typed errors shared across service layers.
// Handlers map these to HTTP codes in one place; nothing below the
// handler layer touches net/http.
package apperr

import "fmt"

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func NewValidationError(field, problem string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

// RateLimitError covers both sliding-window gates and daily quotas.
// An expected steady-state condition, not a bug.
type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }

// UpstreamError wraps failures of external collaborators (Gemini,
// YouTube metadata). Code distinguishes which collaborator failed.
type UpstreamError struct {
	Code    string // "GENERATION_FAILED" | "METADATA_FAILED"
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError wraps store write/read failures.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
