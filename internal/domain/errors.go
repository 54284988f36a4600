package domain

import "fmt"

// Error types for consistent error handling across the API. Each maps to one
// HTTP status in the handler layer.

// FieldError carries per-field validation detail.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrValidation indicates a malformed or out-of-schema payload (400).
type ErrValidation struct {
	Message string
	Fields  []FieldError
}

func (e *ErrValidation) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("validation error on '%s': %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return e.Message
}

// ErrUnauthorized indicates missing/invalid credentials or token (401).
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden indicates an authenticated caller with the wrong role (403).
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "forbidden"
}

// ErrNotFound indicates a resource that is absent or not owned by the caller
// (404). Ownership misses deliberately look identical to absence so plan ids
// cannot be probed.
type ErrNotFound struct {
	Resource string
	ID       int64
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Resource, e.ID)
}

// ErrConflict indicates a uniqueness violation (e.g. duplicate email).
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}
