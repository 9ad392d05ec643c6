// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/pawtrack/internal/backoff"
	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/metrics"
	"github.com/tomtom215/pawtrack/internal/models"
)

const (
	opAuthenticate = "authenticate"
	flightKey      = "session"
)

// State is the lifecycle of the cached session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// Grant is what an Authenticator obtains from the upstream. ExpiresAt
// wins over ExpiresIn; when both are zero the manager's default TTL
// applies.
type Grant struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

// Authenticator performs one credential exchange. It must return errors
// classified as *failure.Error.
type Authenticator interface {
	Authenticate(ctx context.Context, creds models.Credentials) (Grant, error)
}

// SessionManager owns the single cached session. At most one credential
// exchange is in flight at any time; concurrent callers share its result.
type SessionManager struct {
	creds      models.Credentials
	auth       Authenticator
	policy     backoff.Policy
	defaultTTL time.Duration
	now        func() time.Time
	sleep      Sleeper

	mu      sync.Mutex
	session models.Session
	state   State

	// waiters counts callers blocked on the flight. flightCtx is live
	// while waiters > 0 and is cancelled when the last one leaves.
	waiters      int
	flightCtx    context.Context
	cancelFlight context.CancelFunc

	group singleflight.Group
}

// SessionOption configures a SessionManager.
type SessionOption func(*SessionManager)

// WithSessionClock overrides time.Now for expiry checks.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

// WithSessionSleeper overrides the wait between authentication retries.
func WithSessionSleeper(s Sleeper) SessionOption {
	return func(m *SessionManager) { m.sleep = s }
}

// WithDefaultTTL sets the lifetime of tokens that arrive without expiry.
func WithDefaultTTL(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.defaultTTL = d
		}
	}
}

// NewSessionManager creates a manager in StateUnauthenticated. Credentials
// are fixed for the lifetime of the manager.
func NewSessionManager(creds models.Credentials, auth Authenticator, policy backoff.Policy, opts ...SessionOption) *SessionManager {
	m := &SessionManager{
		creds:      creds,
		auth:       auth,
		policy:     policy,
		defaultTTL: time.Hour,
		now:        time.Now,
		sleep:      backoff.Wait,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state. An authenticated session
// whose expiry has passed reports StateExpired.
func (m *SessionManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticated && !m.session.Valid(m.now()) {
		m.state = StateExpired
	}
	return m.state
}

// ValidSession returns a session whose expiry is in the future,
// authenticating first when there is none. Concurrent callers share one
// exchange; cancelling ctx abandons the wait, and the exchange itself is
// cancelled once no caller is left waiting on it.
func (m *SessionManager) ValidSession(ctx context.Context) (models.Session, error) {
	if s, ok := m.cached(); ok {
		return s, nil
	}
	if m.creds.Empty() {
		return models.Session{}, failure.New(failure.Auth, opAuthenticate,
			"set TRACTIVE_EMAIL and TRACTIVE_PASSWORD", failure.ErrMissingCredentials)
	}

	for {
		flightCtx := m.join(ctx)
		ch := m.group.DoChan(flightKey, func() (interface{}, error) {
			return m.refresh(flightCtx)
		})

		var res singleflight.Result
		select {
		case res = <-ch:
			m.leave()
		case <-ctx.Done():
			m.leave()
			return models.Session{}, failure.Canceled(opAuthenticate, ctx.Err())
		}

		if res.Err != nil {
			// Joined a flight abandoned by its earlier waiters; start over.
			if errors.Is(res.Err, context.Canceled) && ctx.Err() == nil {
				continue
			}
			return models.Session{}, res.Err
		}
		return res.Val.(models.Session), nil
	}
}

// join registers a waiter and returns the context the flight runs under.
// It keeps the values of the first caller's ctx but not its deadline.
func (m *SessionManager) join(ctx context.Context) context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waiters++
	if m.flightCtx == nil {
		m.flightCtx, m.cancelFlight = context.WithCancel(context.WithoutCancel(ctx))
	}
	return m.flightCtx
}

func (m *SessionManager) leave() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.waiters--
	if m.waiters == 0 {
		m.cancelFlight()
		m.flightCtx, m.cancelFlight = nil, nil
	}
}

// ForceRefresh discards the cached session and authenticates again.
func (m *SessionManager) ForceRefresh(ctx context.Context) (models.Session, error) {
	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()
	m.Invalidate(token)
	return m.ValidSession(ctx)
}

// Invalidate marks the session expired if it still carries token. A
// stale 401 from a request that raced a refresh does not discard the
// newer session.
func (m *SessionManager) Invalidate(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.session.Token != token {
		return
	}
	m.session = models.Session{}
	m.state = StateExpired
}

func (m *SessionManager) cached() (models.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticated && m.session.Valid(m.now()) {
		return m.session, true
	}
	return models.Session{}, false
}

// refresh runs inside the single flight. It re-checks the cache first so
// a caller that lost the race to a just-finished flight does not trigger
// a second exchange.
func (m *SessionManager) refresh(ctx context.Context) (models.Session, error) {
	m.mu.Lock()
	if m.state == StateAuthenticated && m.session.Valid(m.now()) {
		s := m.session
		m.mu.Unlock()
		return s, nil
	}
	prev := m.state
	if prev == StateAuthenticated {
		prev = StateExpired
	}
	m.state = StateAuthenticating
	m.mu.Unlock()

	log := logging.Ctx(ctx)
	attempt := 0
	for {
		session, err := m.exchange(ctx)
		if err == nil {
			m.commit(session)
			metrics.RecordAuthAttempt("success")
			metrics.SessionRefreshes.Inc()
			log.Debug().Str("user_id", session.UserID).Time("expires_at", session.ExpiresAt).Msg("Session established")
			return session, nil
		}

		if ctx.Err() != nil {
			m.rollback(prev)
			log.Debug().Msg("Authentication abandoned, no callers waiting")
			return models.Session{}, failure.Canceled(opAuthenticate, ctx.Err())
		}

		fe := asFailure(opAuthenticate, err)
		metrics.RecordAuthAttempt(fe.Kind.String())

		if !fe.Kind.Retryable() {
			m.rollback(prev)
			log.Warn().Str("kind", fe.Kind.String()).Int("status", fe.Status).Msg("Authentication failed")
			return models.Session{}, fe
		}

		attempt++
		delay, ok := m.policy.Delay(attempt)
		if !ok {
			m.rollback(prev)
			exhausted := failure.Exhausted(fe, attempt)
			exhausted.Hint = "authentication failed: " + exhausted.Hint
			log.Error().Int("attempts", attempt).Str("kind", fe.Kind.String()).Msg("Authentication retries exhausted")
			return models.Session{}, exhausted
		}
		delay = retryDelay(m.policy, delay, fe)

		log.Warn().Dur("backoff", delay).Int("attempt", attempt).Str("kind", fe.Kind.String()).Msg("Authentication failed, retrying")
		if err := m.sleep(ctx, delay); err != nil {
			m.rollback(prev)
			return models.Session{}, failure.Canceled(opAuthenticate, err)
		}
	}
}

func (m *SessionManager) exchange(ctx context.Context) (models.Session, error) {
	grant, err := m.auth.Authenticate(ctx, m.creds)
	if err != nil {
		return models.Session{}, err
	}
	if grant.Token == "" || grant.UserID == "" {
		return models.Session{}, failure.SchemaMismatch(opAuthenticate, errors.New("token or user id missing"))
	}

	now := m.now()
	expires := grant.ExpiresAt
	switch {
	case !expires.IsZero():
	case grant.ExpiresIn > 0:
		expires = now.Add(grant.ExpiresIn)
	default:
		expires = now.Add(m.defaultTTL)
	}
	if !expires.After(now) {
		return models.Session{}, failure.SchemaMismatch(opAuthenticate, errors.New("token already expired"))
	}
	return models.Session{Token: grant.Token, UserID: grant.UserID, ExpiresAt: expires}, nil
}

func (m *SessionManager) commit(s models.Session) {
	m.mu.Lock()
	m.session = s
	m.state = StateAuthenticated
	m.mu.Unlock()
}

// rollback restores the state held before the exchange started. The
// previous session was already unusable, so it is not restored.
func (m *SessionManager) rollback(prev State) {
	m.mu.Lock()
	m.state = prev
	m.mu.Unlock()
}

// asFailure guarantees a classified error. Anything an Authenticator or
// request function returns unclassified is treated as Fatal.
func asFailure(op string, err error) *failure.Error {
	if fe, ok := failure.As(err); ok {
		return fe
	}
	return failure.New(failure.Fatal, op, "request failed", err)
}

// retryDelay applies a Retry-After override, capped by the policy ceiling.
func retryDelay(p backoff.Policy, computed time.Duration, fe *failure.Error) time.Duration {
	if fe.RetryAfter <= 0 {
		return computed
	}
	if p.Ceiling > 0 && fe.RetryAfter > p.Ceiling {
		return p.Ceiling
	}
	return fe.RetryAfter
}
