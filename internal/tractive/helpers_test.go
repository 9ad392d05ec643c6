// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/pawtrack/internal/backoff"
	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/models"
)

var testCreds = models.Credentials{Email: "owner@example.com", Password: "hunter2-secret"}

// testPolicy retries three times with 100ms, 200ms, 400ms waits.
func testPolicy() backoff.Policy {
	return backoff.Policy{
		Base:        100 * time.Millisecond,
		Ceiling:     time.Second,
		MaxAttempts: 3,
		Jitter:      backoff.NoJitter,
	}
}

// sleepRecorder records requested waits without sleeping.
type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (r *sleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.waits = append(r.waits, d)
	r.mu.Unlock()
	return ctx.Err()
}

func (r *sleepRecorder) Waits() []time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]time.Duration(nil), r.waits...)
}

func (r *sleepRecorder) Total() time.Duration {
	var total time.Duration
	for _, d := range r.Waits() {
		total += d
	}
	return total
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeAPI is an httptest upstream. Authentication is handled by default
// and issues token-1, token-2, ... so tests can tell sessions apart.
type fakeAPI struct {
	t      *testing.T
	server *httptest.Server

	authCalls atomic.Int32
	authFunc  func(w http.ResponseWriter, r *http.Request, n int32) bool

	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	hits   map[string]int
	last   map[string]*http.Request
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		t:      t,
		routes: make(map[string]http.HandlerFunc),
		hits:   make(map[string]int),
		last:   make(map[string]*http.Request),
	}
	f.server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost && r.URL.Path == "/auth/token" {
		n := f.authCalls.Add(1)
		if f.authFunc != nil && f.authFunc(w, r, n) {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"user_id":"user-1","access_token":"token-%d","expires_in":3600}`, n)
		return
	}

	key := r.Method + " " + r.URL.Path
	f.mu.Lock()
	h, ok := f.routes[key]
	f.hits[key]++
	f.last[key] = r.Clone(context.Background())
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	h(w, r)
}

func (f *fakeAPI) handle(method, path string, h http.HandlerFunc) {
	f.mu.Lock()
	f.routes[method+" "+path] = h
	f.mu.Unlock()
}

// handleJSON serves body with status 200 on every call.
func (f *fakeAPI) handleJSON(method, path, body string) {
	f.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	})
}

// handleSequence answers successive calls with the given statuses; the
// last entry repeats. A 200 writes body.
func (f *fakeAPI) handleSequence(method, path, body string, statuses ...int) {
	var calls atomic.Int32
	f.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		i := int(calls.Add(1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		status := statuses[i]
		if status == http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, body)
			return
		}
		w.WriteHeader(status)
	})
}

func (f *fakeAPI) hitCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[method+" "+path]
}

func (f *fakeAPI) lastRequest(method, path string) *http.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[method+" "+path]
}

func (f *fakeAPI) totalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.hits {
		total += n
	}
	return total
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...Option) (*Client, *sleepRecorder) {
	t.Helper()
	rec := &sleepRecorder{}
	base := []Option{
		WithPolicy(testPolicy()),
		WithSleeper(rec.Sleep),
		WithRequestTimeout(2 * time.Second),
	}
	return NewClient(api.server.URL, testCreds, append(base, opts...)...), rec
}

// ============================================================================
// Assertion helpers
// ============================================================================

func checkKind(t *testing.T, err error, want failure.Kind) *failure.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	fe, ok := failure.As(err)
	if !ok {
		t.Fatalf("expected *failure.Error, got %T: %v", err, err)
	}
	if fe.Kind != want {
		t.Fatalf("Kind = %s, want %s (err: %v)", fe.Kind, want, err)
	}
	return fe
}

func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
