// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// External collaborator errors.
	ErrVisionUnavailable = errors.New("vision service unavailable")
	ErrStatLookupFailed  = errors.New("statistical price lookup failed")

	// Analysis errors.
	ErrNoItems        = errors.New("no purchasable items on receipt")
	ErrAnalysisFailed = errors.New("receipt analysis failed")

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

// IsRetryable determines if an error should trigger a retry.
func IsRetryable(err error) bool {
	if errors.Is(err, ErrRateLimit) ||
		errors.Is(err, ErrVisionUnavailable) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		return true
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
