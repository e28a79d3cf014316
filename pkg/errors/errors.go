package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ValidationError is a rejected filter value. The listing endpoints still
// answer 500 for it; the type only decides the log level.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}
	return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
}

// QueryError is a failed read against one storage backend.
type QueryError struct {
	Backend string
	Err     error
}

// NewQueryError wraps err as a failure of the named backend
func NewQueryError(backend string, err error) *QueryError {
	return &QueryError{Backend: backend, Err: err}
}

// Error implements the error interface
func (e *QueryError) Error() string {
	var b strings.Builder
	b.WriteString("failed to query ")
	b.WriteString(e.Backend)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying driver error
func (e *QueryError) Unwrap() error { return e.Err }

// Timeout reports whether the query ran past its deadline.
func (e *QueryError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// IsValidation reports whether err is, or wraps, a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// AsQuery returns the QueryError in err's chain, if any.
func AsQuery(err error) (*QueryError, bool) {
	var q *QueryError
	ok := errors.As(err, &q)
	return q, ok
}
