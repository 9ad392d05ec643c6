// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"context"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/metrics"
	"github.com/tomtom215/pawtrack/internal/models"
)

// call is one upstream attempt made with an already valid session.
type call func(ctx context.Context, session models.Session) error

// execute runs fn inside the retry envelope and returns only the final
// outcome. Auth gets one forced re-authentication; RateLimit and Network
// back off until the policy gives up; everything else returns at once.
func (c *Client) execute(ctx context.Context, op string, fn call) error {
	err := c.retry(ctx, op, fn)
	outcome := "success"
	if err != nil {
		outcome = failure.KindOf(err).String()
		if fe, ok := failure.As(err); ok && fe.Exhausted() {
			outcome = "exhausted"
		}
	}
	metrics.RecordUpstreamOutcome(op, outcome)
	return err
}

func (c *Client) retry(ctx context.Context, op string, fn call) error {
	log := logging.Ctx(ctx)
	reauthenticated := false
	retries := 0

	for {
		if err := ctx.Err(); err != nil {
			return failure.Canceled(op, err)
		}

		session, err := c.sessions.ValidSession(ctx)
		if err != nil {
			return err
		}

		err = c.guard(op, func() error { return fn(ctx, session) })
		if err == nil {
			return nil
		}
		fe := asFailure(op, err)

		switch {
		case fe.Kind == failure.Auth:
			if reauthenticated {
				log.Warn().Str("operation", op).Msg("Request rejected after re-authentication")
				return fe
			}
			reauthenticated = true
			c.sessions.Invalidate(session.Token)
			log.Debug().Str("operation", op).Int("status", fe.Status).Msg("Token rejected, re-authenticating")

		case fe.Kind.Retryable():
			retries++
			delay, ok := c.policy.Delay(retries)
			if !ok {
				log.Error().Str("operation", op).Int("attempts", retries).Str("kind", fe.Kind.String()).Msg("Retries exhausted")
				return failure.Exhausted(fe, retries)
			}
			delay = retryDelay(c.policy, delay, fe)
			metrics.RecordRetry(op, fe.Kind.String())
			log.Warn().Str("operation", op).Dur("backoff", delay).Int("attempt", retries).Str("kind", fe.Kind.String()).Msg("Upstream call failed, backing off")

			if err := c.sleep(ctx, delay); err != nil {
				return failure.Canceled(op, err)
			}

		default:
			return fe
		}
	}
}

// guard runs fn through the circuit breaker when one is configured.
func (c *Client) guard(op string, fn func() error) error {
	if c.breaker == nil {
		return fn()
	}
	return c.breaker.execute(op, fn)
}

// requireTrackerID rejects an empty id before any network call.
func requireTrackerID(op, trackerID string) error {
	if trackerID == "" {
		return failure.Invalid(op, failure.ErrEmptyTrackerID)
	}
	return nil
}
