// Package errors provides error handling for the deck generation pipeline.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - Structured details at store and transport boundaries
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrDeckNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is        = crdb.Is
	IsAny     = crdb.IsAny
	As        = crdb.As
	Unwrap    = crdb.Unwrap
	UnwrapAll = crdb.UnwrapAll
)

// Common sentinel errors for use across the pipeline.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrDeckNotFound indicates no pipeline state exists for the requested deck
	ErrDeckNotFound = New("deck not found")

	// ErrInvalidInput indicates the supplied rows or context were malformed
	ErrInvalidInput = New("invalid input")

	// ErrStageFailed indicates a pipeline stage exhausted its retries or
	// failed fatally; the stage record carries the underlying message
	ErrStageFailed = New("stage failed")

	// ErrRateLimited indicates the agent client refused a call because the
	// local rate limit window is exhausted
	ErrRateLimited = New("rate limit exceeded")

	// ErrNothingToResume indicates resume was requested for a deck with no
	// completed stages on record
	ErrNothingToResume = New("nothing to resume")
)

// IsDeckNotFound checks if an error is or wraps ErrDeckNotFound.
func IsDeckNotFound(err error) bool {
	return err != nil && Is(err, ErrDeckNotFound)
}

// IsInvalidInput checks if an error is or wraps ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// NewDeckNotFound creates a deck-not-found error with a formatted message
func NewDeckNotFound(format string, args ...interface{}) error {
	return Wrap(ErrDeckNotFound, Newf(format, args...).Error())
}

// NewInvalidInput creates an invalid-input error with a formatted message
func NewInvalidInput(format string, args ...interface{}) error {
	return Wrap(ErrInvalidInput, Newf(format, args...).Error())
}
