// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package failure

import (
	"errors"
	"net/http"
)

// Process exit codes used by the CLI.
const (
	ExitOK        = 0
	ExitGeneral   = 1
	ExitAuth      = 2
	ExitNetwork   = 3
	ExitRateLimit = 4
	ExitInterrupt = 130
)

// ExitCode maps err to a process exit code. Exhausted retries report the
// last underlying kind so that "gave up on 429s" still exits 4.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	fe, ok := As(err)
	if !ok {
		return ExitGeneral
	}
	switch effectiveKind(fe) {
	case Auth:
		return ExitAuth
	case Network:
		return ExitNetwork
	case RateLimit:
		return ExitRateLimit
	default:
		return ExitGeneral
	}
}

// HTTPStatus maps err to the status the HTTP surface responds with.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	fe, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch effectiveKind(fe) {
	case Auth:
		return http.StatusUnauthorized
	case RateLimit:
		return http.StatusTooManyRequests
	case Network:
		if IsTimeout(fe.Err) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	}
	switch {
	case fe.Status == http.StatusNotFound:
		return http.StatusNotFound
	case errors.Is(fe, ErrSchemaMismatch), errors.Is(fe, ErrCircuitOpen):
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// Code returns a stable machine-readable error code for API responses.
func Code(err error) string {
	fe, ok := As(err)
	if !ok {
		return "INTERNAL_ERROR"
	}
	switch {
	case errors.Is(fe, ErrRetriesExhausted):
		return "UPSTREAM_EXHAUSTED"
	case errors.Is(fe, ErrSchemaMismatch):
		return "UPSTREAM_SCHEMA_MISMATCH"
	case errors.Is(fe, ErrCircuitOpen):
		return "UPSTREAM_UNAVAILABLE"
	case errors.Is(fe, ErrEmptyTrackerID), errors.Is(fe, ErrInvalidRange):
		return "VALIDATION_ERROR"
	}
	switch fe.Kind {
	case Auth:
		return "UPSTREAM_AUTH"
	case RateLimit:
		return "UPSTREAM_RATE_LIMIT"
	case Network:
		return "UPSTREAM_NETWORK"
	}
	if fe.Status == http.StatusNotFound {
		return "NOT_FOUND"
	}
	return "UPSTREAM_REJECTED"
}

func effectiveKind(fe *Error) Kind {
	if fe.Kind == Fatal && (fe.Exhausted() || errors.Is(fe.Err, ErrCircuitOpen)) {
		return fe.Underlying
	}
	return fe.Kind
}
