// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package failure

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Outcome is a single upstream result: either a response status (with
// headers) or a transport error with no status.
type Outcome struct {
	Status int
	Header http.Header
	Err    error
}

// RateLimitRemainingHeader is the explicit throttling signal honored on
// non-2xx responses in addition to HTTP 429.
const RateLimitRemainingHeader = "X-RateLimit-Remaining"

// Classify maps an outcome to exactly one Kind. Unknown statuses and
// unrecognised errors are Fatal.
func Classify(o Outcome) Kind {
	if o.Status == 0 {
		return classifyErr(o.Err)
	}
	return classifyStatus(o.Status, o.Header)
}

func classifyStatus(status int, header http.Header) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return Auth
	case status == http.StatusTooManyRequests:
		return RateLimit
	case status >= 500 && status <= 599:
		return Network
	case status >= 200 && status <= 299:
		// A success status only reaches the classifier when the body failed
		// validation, which is a schema mismatch.
		return Fatal
	case header != nil && strings.TrimSpace(header.Get(RateLimitRemainingHeader)) == "0":
		return RateLimit
	default:
		return Fatal
	}
}

func classifyErr(err error) Kind {
	if err == nil {
		return Fatal
	}
	if errors.Is(err, context.Canceled) {
		return Fatal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Network
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ETIMEDOUT) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return Network
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return Network
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Network
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return Network
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network
	}
	// Anything that failed inside http.Client.Do is a transport failure.
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Network
	}
	return Fatal
}

// RetryAfter parses a Retry-After header given either as delta-seconds or
// as an HTTP-date. Values in the past yield zero with ok true.
func RetryAfter(header http.Header, now time.Time) (time.Duration, bool) {
	if header == nil {
		return 0, false
	}
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, false
		}
		return time.Duration(secs) * time.Second, true
	}
	if at, err := http.ParseTime(v); err == nil {
		d := at.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}

// FromOutcome builds a classified Error for op. Status based hints are
// generic so that they never echo upstream content.
func FromOutcome(op string, o Outcome, now time.Time) *Error {
	kind := Classify(o)
	e := &Error{Kind: kind, Underlying: kind, Op: op, Status: o.Status, Err: o.Err}
	if d, ok := RetryAfter(o.Header, now); ok {
		e.RetryAfter = d
	}
	e.Hint = hintFor(kind, o)
	return e
}

func hintFor(kind Kind, o Outcome) string {
	switch kind {
	case Auth:
		return "authentication rejected; check TRACTIVE_EMAIL and TRACTIVE_PASSWORD"
	case RateLimit:
		return "rate limited by tracking service"
	case Network:
		if o.Status != 0 {
			return "tracking service error"
		}
		if IsTimeout(o.Err) {
			return "request to tracking service timed out"
		}
		return "could not reach tracking service"
	}
	switch o.Status {
	case http.StatusNotFound:
		return "not found"
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return "request rejected by tracking service"
	case 0:
		if errors.Is(o.Err, context.Canceled) {
			return "operation canceled"
		}
		return "request failed"
	}
	return "unexpected response from tracking service"
}
