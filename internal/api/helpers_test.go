// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawtrack/internal/enrich"
	"github.com/tomtom215/pawtrack/internal/models"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeBackend records calls and answers from its function fields. A nil
// field returns a zero value.
type fakeBackend struct {
	mu    sync.Mutex
	calls []string

	trackers  func() ([]models.Tracker, error)
	tracker   func(id string) (models.Tracker, error)
	latest    func(id string) (models.Position, bool, error)
	history   func(id string, from, to time.Time) ([]models.Position, error)
	geofences func(id string) ([]models.Geofence, error)
	command   func(name, id string, active bool) (bool, error)

	sessionState string
	breakerState string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) Login(context.Context) (models.Session, error) {
	f.record("login")
	return models.Session{}, nil
}

func (f *fakeBackend) ListTrackers(context.Context) ([]models.Tracker, error) {
	f.record("list_trackers")
	if f.trackers == nil {
		return []models.Tracker{}, nil
	}
	return f.trackers()
}

func (f *fakeBackend) Tracker(_ context.Context, id string) (models.Tracker, error) {
	f.record("tracker")
	if f.tracker == nil {
		return models.Tracker{ID: id}, nil
	}
	return f.tracker(id)
}

func (f *fakeBackend) LatestPosition(_ context.Context, id string) (models.Position, bool, error) {
	f.record("latest")
	if f.latest == nil {
		return models.Position{}, false, nil
	}
	return f.latest(id)
}

func (f *fakeBackend) PositionHistory(_ context.Context, id string, from, to time.Time) ([]models.Position, error) {
	f.record("history")
	if f.history == nil {
		return []models.Position{}, nil
	}
	return f.history(id, from, to)
}

func (f *fakeBackend) Geofences(_ context.Context, id string) ([]models.Geofence, error) {
	f.record("geofences")
	if f.geofences == nil {
		return []models.Geofence{}, nil
	}
	return f.geofences(id)
}

func (f *fakeBackend) SetLiveTracking(_ context.Context, id string, active bool) (bool, error) {
	f.record("live")
	return f.runCommand("live_tracking", id, active)
}

func (f *fakeBackend) TriggerLED(_ context.Context, id string) (bool, error) {
	f.record("led")
	return f.runCommand("led", id, true)
}

func (f *fakeBackend) TriggerBuzzer(_ context.Context, id string) (bool, error) {
	f.record("buzzer")
	return f.runCommand("buzzer", id, true)
}

func (f *fakeBackend) runCommand(name, id string, active bool) (bool, error) {
	if f.command == nil {
		return true, nil
	}
	return f.command(name, id, active)
}

func (f *fakeBackend) SessionState() string {
	if f.sessionState == "" {
		return "unauthenticated"
	}
	return f.sessionState
}

func (f *fakeBackend) BreakerState() string {
	if f.breakerState == "" {
		return "closed"
	}
	return f.breakerState
}

// stubEnricher is an enrich.Provider with canned answers. Nil places or
// elevations and routes=false make those calls fail.
type stubEnricher struct {
	address    string
	elevations func(n int) []float64
	places     []enrich.Place
	routes     bool
}

func (s stubEnricher) ReverseGeocode(context.Context, models.Coordinate) (string, bool, error) {
	return s.address, s.address != "", nil
}

func (s stubEnricher) Distance(_ context.Context, _, _ models.Coordinate, mode enrich.TravelMode) (enrich.Route, error) {
	if !s.routes {
		return enrich.Route{}, io.ErrUnexpectedEOF
	}
	return enrich.Route{DistanceMeters: 1200, DurationSeconds: 900, Mode: mode}, nil
}

func (s stubEnricher) NearbyPlaces(context.Context, models.Coordinate, float64, []string) ([]enrich.Place, error) {
	if s.places == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return s.places, nil
}

func (s stubEnricher) Elevation(_ context.Context, pts []models.Coordinate) ([]float64, error) {
	if s.elevations == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return s.elevations(len(pts)), nil
}

type testServerOptions struct {
	enricher enrich.Provider
	debug    bool
	mw       *ChiMiddlewareConfig
}

func newTestRouter(t *testing.T, backend *fakeBackend, o testServerOptions) http.Handler {
	t.Helper()
	var svc *enrich.Service
	if o.enricher != nil {
		svc = enrich.NewService(o.enricher, time.Second, time.Minute)
	}
	h := NewHandler(backend, svc,
		WithDebug(o.debug),
		WithClock(func() time.Time { return testNow }),
		WithRequestTimeout(5*time.Second),
	)
	cfg := o.mw
	if cfg == nil {
		cfg = DefaultChiMiddlewareConfig()
		cfg.RateLimitDisabled = true
	}
	return NewRouter(h, NewChiMiddleware(cfg)).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeResponse unmarshals the envelope, with Data left raw for the caller.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) (APIResponse, json.RawMessage) {
	t.Helper()
	var env struct {
		APIResponse
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
	return env.APIResponse, env.Data
}

func checkStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d\nbody: %s", rec.Code, want, rec.Body.String())
	}
}

func checkErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	resp, _ := decodeResponse(t, rec)
	if resp.Success {
		t.Fatal("expected success=false")
	}
	if resp.Error == nil || resp.Error.Code != want {
		t.Fatalf("error = %+v, want code %s", resp.Error, want)
	}
}
