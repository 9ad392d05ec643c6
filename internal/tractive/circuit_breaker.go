// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/metrics"
)

const breakerName = "tractive-api"

// BreakerSettings configures the upstream circuit breaker.
type BreakerSettings struct {
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	Timeout      time.Duration
}

// DefaultBreakerSettings opens after a 60% failure rate over at least 10
// requests and probes again after two minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  10,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
	}
}

// circuitBreaker wraps single HTTP attempts. Only Network failures count
// against the breaker: a 401 or a 429 means the upstream is alive.
//
// The breaker uses real time for its interval and timeout. Tests exercise
// it through the trip threshold, not through recovery.
type circuitBreaker struct {
	cb   *gobreaker.CircuitBreaker[struct{}]
	name string
}

func newCircuitBreaker(s BreakerSettings) *circuitBreaker {
	def := DefaultBreakerSettings()
	if s.MinRequests == 0 {
		s.MinRequests = def.MinRequests
	}
	if s.FailureRatio <= 0 || s.FailureRatio > 1 {
		s.FailureRatio = def.FailureRatio
	}
	if s.Interval <= 0 {
		s.Interval = def.Interval
	}
	if s.Timeout <= 0 {
		s.Timeout = def.Timeout
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			trip := ratio >= s.FailureRatio
			if trip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return trip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},

		IsSuccessful: func(err error) bool {
			return err == nil || failure.KindOf(err) != failure.Network
		},
	})

	return &circuitBreaker{cb: cb, name: breakerName}
}

// execute runs fn under the breaker. A rejected call is Fatal with
// Underlying Network so that it is surfaced without retry but still maps
// to the network exit code and a 502.
func (b *circuitBreaker) execute(op string, fn func() error) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		logging.Warn().Err(err).Str("operation", op).Msg("[CIRCUIT BREAKER] Request rejected")
		return &failure.Error{
			Kind:       failure.Fatal,
			Underlying: failure.Network,
			Op:         op,
			Hint:       "tracking service temporarily unavailable; try again later",
			Err:        fmt.Errorf("%w: %v", failure.ErrCircuitOpen, err),
		}
	}

	if failure.KindOf(err) == failure.Network {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	} else {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	}
	return err
}

// State returns the breaker state as a string for health reporting.
func (b *circuitBreaker) State() string {
	return stateToString(b.cb.State())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
