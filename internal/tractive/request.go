// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

/*
request.go - Tractive HTTP Request Helpers

This file executes exactly one HTTP attempt against the Tractive API and
turns its outcome into either a response or a classified *failure.Error.
Retrying is the envelope's job, never this file's.

Request Configuration:
  - Authentication: Bearer token when a session is attached
  - Client identity: X-Tractive-Client and User-Agent on every request
  - Timeout: each attempt gets its own deadline (requestTimeout)
  - Rate Limiting: optional client-side token bucket before sending
  - Status Validation: 2xx succeeds; acceptConflict also accepts 409
*/

//nolint:staticcheck // File documentation, not package doc
package tractive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/metrics"
)

const (
	// maxErrorBodyBytes caps how much of an error body is read for diagnostics.
	maxErrorBodyBytes = 64 * 1024
	// maxResponseBytes caps successful bodies. Multi-day histories stay
	// well below this.
	maxResponseBytes = 32 * 1024 * 1024
)

// requestConfig holds configuration for one upstream attempt
type requestConfig struct {
	op     string
	method string
	path   string
	query  url.Values
	body   interface{}
	token  string
	// secrets are scrubbed from any body excerpt kept for debugging
	secrets []string
	// acceptConflict treats 409 as success (command already in that state)
	acceptConflict bool
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// doRequest performs a single attempt. ctx is the caller's context; the
// per-attempt deadline is derived here so that a slow call counts as one
// Network failure rather than consuming the caller's budget.
func (c *Client) doRequest(ctx context.Context, cfg requestConfig) (*response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, failure.Canceled(cfg.op, err)
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := c.newRequest(attemptCtx, cfg)
	if err != nil {
		return nil, failure.New(failure.Fatal, cfg.op, "could not build request", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RecordUpstreamAttempt(cfg.op, time.Since(start))
	if err != nil {
		return nil, c.transportFailure(ctx, cfg.op, err)
	}
	defer resp.Body.Close()

	ok := resp.StatusCode >= 200 && resp.StatusCode <= 299
	if cfg.acceptConflict && resp.StatusCode == http.StatusConflict {
		ok = true
	}

	if !ok {
		fe := failure.FromOutcome(cfg.op, failure.Outcome{Status: resp.StatusCode, Header: resp.Header}, c.now())
		if c.debug {
			fe.Detail = readBodyForError(resp.Body, append(cfg.secrets, cfg.token)...)
		}
		logging.Ctx(ctx).Debug().Str("operation", cfg.op).Int("status", resp.StatusCode).Str("kind", fe.Kind.String()).Msg("Upstream request failed")
		return nil, fe
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, c.transportFailure(ctx, cfg.op, fmt.Errorf("read response: %w", err))
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

func (c *Client) newRequest(ctx context.Context, cfg requestConfig) (*http.Request, error) {
	reqURL := c.baseURL + cfg.path

	var body io.Reader = http.NoBody
	if cfg.body != nil {
		payload, err := json.Marshal(cfg.body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cfg.method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if len(cfg.query) > 0 {
		req.URL.RawQuery = cfg.query.Encode()
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Tractive-Client", c.clientID)
	if cfg.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cfg.token != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.token)
	}
	return req, nil
}

// transportFailure distinguishes the caller abandoning the operation from
// the attempt itself failing. Only the latter is retryable.
func (c *Client) transportFailure(ctx context.Context, op string, err error) *failure.Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return failure.Canceled(op, ctxErr)
	}
	return failure.FromOutcome(op, failure.Outcome{Err: err}, c.now())
}

// readBodyForError reads up to maxErrorBodyBytes and returns it redacted.
func readBodyForError(r io.Reader, secrets ...string) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil || len(raw) == 0 {
		return ""
	}
	return logging.Redact(logging.RedactSecrets(string(raw), secrets...))
}

// doJSON performs a request and decodes a successful body with decode.
// Decode failures are schema mismatches.
func (c *Client) doJSON(ctx context.Context, cfg requestConfig, decode func([]byte) error) error {
	resp, err := c.doRequest(ctx, cfg)
	if err != nil {
		return err
	}
	if decode == nil {
		return nil
	}
	if err := decode(resp.body); err != nil {
		if fe, ok := failure.As(err); ok {
			return fe
		}
		fe := failure.SchemaMismatch(cfg.op, err)
		fe.Status = resp.status
		return fe
	}
	return nil
}
