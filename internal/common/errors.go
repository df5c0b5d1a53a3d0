// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Event errors.
	ErrUnsupportedEventType = errors.New("unsupported event type")
	ErrInvalidTransaction   = errors.New("invalid transaction data")

	// Extraction errors.
	ErrExtractionUnavailable = errors.New("extraction service unavailable")
	ErrExtractionParse       = errors.New("extraction output unparseable")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRecoverable reports whether the categorization path may degrade to the
// heuristic floor instead of failing the whole request.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrExtractionUnavailable) ||
		errors.Is(err, ErrExtractionParse) ||
		errors.Is(err, ErrRateLimit)
}

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
