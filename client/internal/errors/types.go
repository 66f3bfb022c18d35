// Package errors classifies failures of the identity resource client into a
// single error shape.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory tells callers whether a failure is likely transient.
// The client itself never retries; the category is informational.
type ErrorCategory int

const (
	// Recoverable failures may succeed when the user tries again.
	// Examples: 500 Internal Server Error, network timeouts, connection failures.
	Recoverable ErrorCategory = iota

	// Irrecoverable failures will not change on resubmission.
	// Examples: 401 Unauthorized, 404 Not Found, 400 Bad Request.
	Irrecoverable
)

// String returns a human-readable representation of the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// GenericMessage is used when the response carries no readable message.
const GenericMessage = "request failed"

// ClassifiedError is the one error shape surfaced by every client operation.
type ClassifiedError struct {
	Op         string // client operation, e.g. "create identity"
	Category   ErrorCategory
	StatusCode int    // HTTP status code (0 for transport failures)
	Message    string // human-readable message, never empty
	Body       string // raw response body for debugging
	Underlying error
}

// Error implements the error interface.
func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain compatibility.
func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable returns true if resubmitting cannot help.
func IsIrrecoverable(err error) bool {
	if classified, ok := err.(*ClassifiedError); ok {
		return classified.Category == Irrecoverable
	}
	return false
}

// Sentinels matched by errors.Is against a *ClassifiedError's status code.
var (
	ErrNotFound     = stderrors.New("not found")
	ErrUnauthorized = stderrors.New("unauthorized")
)

// Is lets errors.Is(err, ErrNotFound) hold for a 404 and
// errors.Is(err, ErrUnauthorized) for a 401 or 403.
func (e *ClassifiedError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == 404
	case ErrUnauthorized:
		return e.StatusCode == 401 || e.StatusCode == 403
	}
	return false
}
