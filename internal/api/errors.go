// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
)

// Common API errors
var (
	ErrInvalidTrackerID = errors.New("tracker id must contain only letters, digits, '-' or '_'")
	ErrInvalidTime      = errors.New("time must be RFC3339 or unix seconds")
)

// failureDetails is the details object attached to upstream failures.
type failureDetails struct {
	Kind       string `json:"kind"`
	Underlying string `json:"underlying,omitempty"`
	Operation  string `json:"operation,omitempty"`
	Status     int    `json:"upstream_status,omitempty"`
	Attempts   int    `json:"attempts,omitempty"`
	RetryAfter string `json:"retry_after,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// writeFailure renders an error from the tracking client. The upstream body
// (already redacted) is only included when debug is on.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, debug bool) {
	rw := NewResponseWriter(w, r)

	fe, ok := failure.As(err)
	if !ok {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Unclassified error from tracking client")
		rw.Error(http.StatusInternalServerError, ErrCodeInternalError, "internal error")
		return
	}

	status := failure.HTTPStatus(err)
	code := failure.Code(err)
	// A handler deadline surfaces as a cancellation from the envelope.
	if fe.Kind == failure.Fatal && fe.Status == 0 && errors.Is(err, context.DeadlineExceeded) {
		status, code = http.StatusGatewayTimeout, ErrCodeGatewayTimeout
	}

	details := failureDetails{
		Kind:      fe.Kind.String(),
		Operation: fe.Op,
		Status:    fe.Status,
		Attempts:  fe.Attempts,
	}
	if fe.Underlying != fe.Kind {
		details.Underlying = fe.Underlying.String()
	}
	if fe.RetryAfter > 0 {
		details.RetryAfter = fe.RetryAfter.String()
		w.Header().Set("Retry-After", strconv.Itoa(int(fe.RetryAfter.Seconds()+0.5)))
	}
	if debug {
		details.Detail = fe.Detail
	}

	event := logging.Ctx(r.Context()).Warn()
	if status >= 500 {
		event = logging.Ctx(r.Context()).Error()
	}
	event.Err(err).
		Str("code", code).
		Int("status", status).
		Str("path", sanitizeLogValue(r.URL.Path)).
		Msg("Tracking request failed")

	message := fe.Hint
	if message == "" {
		message = http.StatusText(status)
	}
	rw.ErrorWithDetails(status, code, message, details)
}
