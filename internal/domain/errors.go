package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidQuery signals a malformed search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrSearchTimeout signals that the search pipeline was aborted by deadline or cancellation.
	ErrSearchTimeout = errors.New("search timeout")
	// ErrInternal signals an unexpected failure inside matching or scoring.
	ErrInternal = errors.New("search failed")
	// ErrInvalidProduct signals a product snapshot that cannot be stored.
	ErrInvalidProduct = errors.New("invalid product")
)

// Violation is a single field-level validation failure.
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError aggregates every violation found in a query.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Reason
	}
	return fmt.Sprintf("%s: %s", ErrInvalidQuery.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidQuery }

// Add records a violation.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Reason: fmt.Sprintf(format, args...)})
}

// Empty reports whether no violation was recorded.
func (e *ValidationError) Empty() bool { return len(e.Violations) == 0 }

// InternalError wraps ErrInternal with a correlation id that is safe to show to callers.
// Cause is only meant for logs.
type InternalError struct {
	CorrelationID string
	Cause         error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s (correlation id %s): %v", ErrInternal.Error(), e.CorrelationID, e.Cause)
}

func (e *InternalError) Unwrap() error { return ErrInternal }

// NewInternalError creates an internal error with a fresh correlation id.
func NewInternalError(cause error) *InternalError {
	return &InternalError{CorrelationID: uuid.NewString(), Cause: cause}
}
