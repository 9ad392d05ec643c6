// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package backoff

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDelayBoundsWithRandomJitter(t *testing.T) {
	t.Parallel()

	p := Policy{Base: 100 * time.Millisecond, MaxAttempts: 6}
	for run := 0; run < 200; run++ {
		for a := 1; a <= p.MaxAttempts; a++ {
			d, ok := p.Delay(a)
			if !ok {
				t.Fatalf("Delay(%d) reported no-retry", a)
			}
			computed := p.Base * time.Duration(1<<(a-1))
			if d < computed || d >= 2*computed {
				t.Fatalf("Delay(%d) = %v, want in [%v, %v)", a, d, computed, 2*computed)
			}
		}
	}
}

func TestDelayExactWithInjectedJitter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		jitter  JitterFunc
		attempt int
		want    time.Duration
	}{
		{"no jitter first", NoJitter, 1, time.Second},
		{"no jitter second", NoJitter, 2, 2 * time.Second},
		{"no jitter third", NoJitter, 3, 4 * time.Second},
		{"max jitter", func(n time.Duration) time.Duration { return n - 1 }, 2, 4*time.Second - 1},
		{"half jitter", func(n time.Duration) time.Duration { return n / 2 }, 3, 6 * time.Second},
		{"out of range jitter ignored", func(n time.Duration) time.Duration { return n * 5 }, 1, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := Policy{Base: time.Second, MaxAttempts: 3, Jitter: tt.jitter}
			got, ok := p.Delay(tt.attempt)
			if !ok || got != tt.want {
				t.Errorf("Delay(%d) = (%v, %v), want (%v, true)", tt.attempt, got, ok, tt.want)
			}
		})
	}
}

func TestDelayCeiling(t *testing.T) {
	t.Parallel()

	p := Policy{Base: time.Second, Ceiling: 5 * time.Second, MaxAttempts: 10, Jitter: NoJitter}
	for a, want := range map[int]time.Duration{1: time.Second, 3: 4 * time.Second, 4: 5 * time.Second, 10: 5 * time.Second} {
		if got, _ := p.Delay(a); got != want {
			t.Errorf("Delay(%d) = %v, want %v", a, got, want)
		}
	}
}

func TestDelaySignalsNoRetry(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	if _, ok := p.Delay(p.MaxAttempts + 1); ok {
		t.Error("expected no-retry past MaxAttempts")
	}
	if _, ok := p.Delay(0); ok {
		t.Error("expected no-retry for attempt 0")
	}
	if _, ok := (Policy{}).Delay(1); ok {
		t.Error("zero policy must never retry")
	}
}

func TestDelayZeroBase(t *testing.T) {
	t.Parallel()

	p := Policy{MaxAttempts: 2}
	d, ok := p.Delay(1)
	if !ok || d != 0 {
		t.Errorf("Delay(1) = (%v, %v), want (0, true)", d, ok)
	}
}

func TestDelayLargeAttemptDoesNotOverflow(t *testing.T) {
	t.Parallel()

	p := Policy{Base: time.Second, MaxAttempts: 200, Jitter: NoJitter}
	d, ok := p.Delay(200)
	if !ok || d <= 0 {
		t.Errorf("Delay(200) = (%v, %v), want positive", d, ok)
	}
}

func TestWait(t *testing.T) {
	t.Parallel()

	if err := Wait(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Wait returned %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	err := Wait(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Wait on canceled ctx = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait did not return promptly on cancellation")
	}
}
