// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package failure classifies upstream outcomes into the four failure kinds
// that drive retry policy, CLI exit codes and HTTP statuses.
package failure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind is the category attached to every error the tracking client surfaces.
type Kind int

const (
	// Fatal covers malformed input, not-found, schema mismatch and retry
	// exhaustion. Never retried. It is the zero value so that an
	// unclassified error is treated as non-retryable.
	Fatal Kind = iota
	// Auth means credentials were rejected or the token expired.
	Auth
	// RateLimit means the upstream is throttling us.
	RateLimit
	// Network covers transport failures and 5xx responses.
	Network
)

func (k Kind) String() string {
	switch k {
	case Auth:
		return "auth"
	case RateLimit:
		return "rate_limit"
	case Network:
		return "network"
	default:
		return "fatal"
	}
}

// Retryable reports whether the kind is subject to the backoff loop.
func (k Kind) Retryable() bool {
	return k == RateLimit || k == Network
}

// Sentinel causes wrapped by Error.Err.
var (
	ErrEmptyTrackerID     = errors.New("tracker id is required")
	ErrInvalidRange       = errors.New("invalid time range: from is after to")
	ErrSchemaMismatch     = errors.New("upstream response does not match expected schema")
	ErrRetriesExhausted   = errors.New("retry attempts exhausted")
	ErrMissingCredentials = errors.New("tractive credentials are not configured")
	ErrCircuitOpen        = errors.New("upstream circuit breaker is open")
)

// Error is the typed error surfaced by the session manager and the
// tracking client. Hint is safe to show to users; Detail may carry a
// redacted upstream body and is populated only in debug mode.
type Error struct {
	Kind Kind
	// Underlying equals Kind except for exhaustion, where Kind is Fatal and
	// Underlying keeps the last retryable kind.
	Underlying Kind
	Op         string
	Status     int
	Hint       string
	Detail     string
	RetryAfter time.Duration
	Attempts   int
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Kind == Fatal && e.Underlying != Fatal {
		fmt.Fprintf(&b, " (last failure: %s)", e.Underlying)
	}
	if e.Status != 0 {
		fmt.Fprintf(&b, " [HTTP %d]", e.Status)
	}
	if e.Hint != "" {
		b.WriteString(": ")
		b.WriteString(e.Hint)
	}
	if e.Err != nil && e.Hint != e.Err.Error() {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Exhausted reports whether the error is the result of running out of retries.
func (e *Error) Exhausted() bool {
	return errors.Is(e.Err, ErrRetriesExhausted)
}

// New builds an Error whose Underlying equals kind.
func New(kind Kind, op, hint string, cause error) *Error {
	return &Error{Kind: kind, Underlying: kind, Op: op, Hint: hint, Err: cause}
}

// Invalid is a Fatal precondition failure detected before any network call.
func Invalid(op string, cause error) *Error {
	return New(Fatal, op, cause.Error(), cause)
}

// SchemaMismatch is a Fatal failure for payloads that fail validation.
func SchemaMismatch(op string, cause error) *Error {
	return &Error{
		Kind:       Fatal,
		Underlying: Fatal,
		Op:         op,
		Hint:       "unexpected response from tracking service",
		Err:        fmt.Errorf("%w: %v", ErrSchemaMismatch, cause),
	}
}

// Exhausted converts the last retryable failure into a Fatal error that
// keeps the last kind for diagnostics.
func Exhausted(last *Error, attempts int) *Error {
	hint := "gave up after repeated failures"
	switch last.Kind {
	case RateLimit:
		hint = "rate limited by tracking service; try again later"
	case Network:
		hint = "tracking service unreachable; check connectivity and try again"
	}
	return &Error{
		Kind:       Fatal,
		Underlying: last.Kind,
		Op:         last.Op,
		Status:     last.Status,
		Hint:       hint,
		Detail:     last.Detail,
		RetryAfter: last.RetryAfter,
		Attempts:   attempts,
		Err:        fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, last),
	}
}

// Canceled wraps a caller cancellation. errors.Is(err, context.Canceled)
// keeps working through Unwrap.
func Canceled(op string, cause error) *Error {
	return New(Fatal, op, "operation canceled", cause)
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind carried by err. Errors that were never
// classified are Fatal.
func KindOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Kind
	}
	return Fatal
}

// UnderlyingOf returns the underlying kind carried by err.
func UnderlyingOf(err error) Kind {
	if fe, ok := As(err); ok {
		return fe.Underlying
	}
	return Fatal
}

// IsTimeout reports whether err was caused by a deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
