// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package backoff computes capped exponential retry delays with additive
// jitter.
package backoff

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// Defaults match TRACTIVE_BACKOFF_MS and TRACTIVE_MAX_RETRIES.
const (
	DefaultBase        = time.Second
	DefaultCeiling     = 30 * time.Second
	DefaultMaxAttempts = 3
)

// JitterFunc returns a value in [0, n). n is always positive.
type JitterFunc func(n time.Duration) time.Duration

// Policy is a retry delay policy. The zero value never retries.
type Policy struct {
	// Base is the delay before the first retry.
	Base time.Duration
	// Ceiling caps the un-jittered delay. Zero means no cap.
	Ceiling time.Duration
	// MaxAttempts is the number of retries allowed after the first call.
	MaxAttempts int
	// Jitter is the randomness source. Nil uses math/rand/v2.
	Jitter JitterFunc
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{Base: DefaultBase, Ceiling: DefaultCeiling, MaxAttempts: DefaultMaxAttempts}
}

// Delay returns the wait before retry number attempt (1-based). ok is false
// when attempt exceeds MaxAttempts and the caller must stop retrying.
//
// The un-jittered value is computed = min(Base*2^(attempt-1), Ceiling).
// Jitter in [0, computed) is added on top of it, so the result lies in
// [computed, 2*computed). The delay never drops below computed.
func (p Policy) Delay(attempt int) (time.Duration, bool) {
	if attempt < 1 || attempt > p.MaxAttempts {
		return 0, false
	}
	computed := p.computed(attempt)
	if computed <= 0 {
		return 0, true
	}
	jitter := p.jitter(computed)
	if jitter < 0 || jitter >= computed {
		jitter = 0
	}
	return computed + jitter, true
}

func (p Policy) computed(attempt int) time.Duration {
	if p.Base <= 0 {
		return 0
	}
	d := p.Base
	for i := 1; i < attempt; i++ {
		if p.Ceiling > 0 && d >= p.Ceiling {
			break
		}
		if d > math.MaxInt64/2 {
			break
		}
		d *= 2
	}
	if p.Ceiling > 0 && d > p.Ceiling {
		d = p.Ceiling
	}
	return d
}

func (p Policy) jitter(n time.Duration) time.Duration {
	if p.Jitter != nil {
		return p.Jitter(n)
	}
	return time.Duration(rand.Int64N(int64(n)))
}

// Wait blocks for d or until ctx is done, whichever comes first.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoJitter is a JitterFunc that always returns zero.
func NoJitter(time.Duration) time.Duration { return 0 }
