// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawtrack/internal/enrich"
	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/models"
)

// ========================================
// Health and routing
// ========================================

func TestHealth(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{sessionState: "authenticated", breakerState: "open"}
	h := newTestRouter(t, backend, testServerOptions{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/health", "")
	checkStatus(t, rec, http.StatusOK)

	_, data := decodeResponse(t, rec)
	var health HealthResponse
	if err := json.Unmarshal(data, &health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "degraded" || health.SessionState != "authenticated" || health.CircuitBreaker != "open" {
		t.Errorf("health = %+v", health)
	}
	if health.EnrichmentEnabled {
		t.Error("enrichment should be disabled without a provider")
	}
	if backend.callCount() != 0 {
		t.Error("health must not call upstream")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers")
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakeBackend{}, testServerOptions{})
	rec := doRequest(t, h, http.MethodGet, "/api/v1/nope", "")
	checkStatus(t, rec, http.StatusNotFound)
	checkErrorCode(t, rec, ErrCodeNotFound)

	rec = doRequest(t, h, http.MethodDelete, "/api/v1/trackers/ABC", "")
	checkStatus(t, rec, http.StatusMethodNotAllowed)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, &fakeBackend{}, testServerOptions{})
	doRequest(t, h, http.MethodGet, "/api/v1/trackers", "")
	rec := doRequest(t, h, http.MethodGet, "/metrics", "")
	checkStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "pawtrack_api_requests_total") {
		t.Error("expected pawtrack metrics in exposition")
	}
}

// ========================================
// Reads
// ========================================

func TestListTrackers(t *testing.T) {
	t.Parallel()

	level := 80
	backend := &fakeBackend{trackers: func() ([]models.Tracker, error) {
		return []models.Tracker{{ID: "ABC", BatteryLevel: &level}, {ID: "DEF"}}, nil
	}}
	h := newTestRouter(t, backend, testServerOptions{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers", "")
	checkStatus(t, rec, http.StatusOK)
	resp, data := decodeResponse(t, rec)
	if resp.Meta == nil || resp.Meta.Count == nil || *resp.Meta.Count != 2 {
		t.Errorf("meta = %+v", resp.Meta)
	}
	var trackers []models.Tracker
	if err := json.Unmarshal(data, &trackers); err != nil {
		t.Fatal(err)
	}
	if len(trackers) != 2 || *trackers[0].BatteryLevel != 80 {
		t.Errorf("trackers = %+v", trackers)
	}
}

func TestInvalidTrackerIDNeverCallsUpstream(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	h := newTestRouter(t, backend, testServerOptions{})

	paths := []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/trackers/bad%20id", ""},
		{http.MethodGet, "/api/v1/trackers/bad.id/position/latest", ""},
		{http.MethodGet, "/api/v1/trackers/" + strings.Repeat("x", 65) + "/positions", ""},
		{http.MethodGet, "/api/v1/trackers/%24%24/trail", ""},
		{http.MethodGet, "/api/v1/trackers/a%2Fb/geofences", ""},
		{http.MethodPut, "/api/v1/trackers/bad!/live", `{"active":true}`},
		{http.MethodPost, "/api/v1/trackers/bad!/led", ""},
		{http.MethodPost, "/api/v1/trackers/bad!/buzzer", ""},
	}
	for _, p := range paths {
		rec := doRequest(t, h, p.method, p.path, p.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d, want 400", p.method, p.path, rec.Code)
		}
	}
	if n := backend.callCount(); n != 0 {
		t.Errorf("backend called %d times for invalid ids", n)
	}
}

func TestLatestPosition(t *testing.T) {
	t.Parallel()

	fix := models.Position{TrackerID: "ABC", Time: testNow, Latitude: 48.2082, Longitude: 16.3738}
	backend := &fakeBackend{latest: func(id string) (models.Position, bool, error) {
		if id == "EMPTY" {
			return models.Position{}, false, nil
		}
		return fix, true, nil
	}}
	h := newTestRouter(t, backend, testServerOptions{enricher: stubEnricher{address: "Stephansplatz 1"}})

	t.Run("with address", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/position/latest?address=true", "")
		checkStatus(t, rec, http.StatusOK)
		_, data := decodeResponse(t, rec)
		var got models.LatestReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if !got.Found || got.Position == nil || got.Position.Address != "Stephansplatz 1" {
			t.Errorf("latest = %+v", got)
		}
	})

	t.Run("without address", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/position/latest", "")
		_, data := decodeResponse(t, rec)
		var got models.LatestReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Position == nil || got.Position.Address != "" {
			t.Errorf("address should be absent, got %+v", got.Position)
		}
	})

	t.Run("no data", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/EMPTY/position/latest", "")
		checkStatus(t, rec, http.StatusOK)
		_, data := decodeResponse(t, rec)
		var got models.LatestReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Found || got.Position != nil {
			t.Errorf("expected found=false, got %+v", got)
		}
	})
}

func TestPositionsRangeAndDownsample(t *testing.T) {
	t.Parallel()

	var gotFrom, gotTo time.Time
	backend := &fakeBackend{history: func(_ string, from, to time.Time) ([]models.Position, error) {
		gotFrom, gotTo = from, to
		out := make([]models.Position, 100)
		for i := range out {
			out[i] = models.Position{TrackerID: "ABC", Time: from.Add(time.Duration(i) * time.Minute)}
		}
		return out, nil
	}}
	h := newTestRouter(t, backend, testServerOptions{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/positions?max_points=10", "")
	checkStatus(t, rec, http.StatusOK)
	if !gotTo.Equal(testNow) || !gotFrom.Equal(testNow.Add(-24*time.Hour)) {
		t.Errorf("default range = %v..%v", gotFrom, gotTo)
	}
	resp, _ := decodeResponse(t, rec)
	if resp.Meta.Count == nil || *resp.Meta.Count > 10 {
		t.Errorf("count = %v, want <= 10", resp.Meta.Count)
	}

	rec = doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/positions?from=2026-04-30T00:00:00Z&to=1777636800", "")
	checkStatus(t, rec, http.StatusOK)
	if !gotFrom.Equal(time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)) || !gotTo.Equal(time.Unix(1777636800, 0)) {
		t.Errorf("explicit range = %v..%v", gotFrom, gotTo)
	}
}

func TestPositionsBadQuery(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	h := newTestRouter(t, backend, testServerOptions{})

	tests := []struct {
		name  string
		query string
		code  string
	}{
		{"bad from", "?from=yesterday", ErrCodeBadRequest},
		{"bad to", "?to=soon", ErrCodeBadRequest},
		{"non-integer max_points", "?max_points=ten", ErrCodeBadRequest},
		{"negative max_points", "?max_points=-1", ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/positions"+tt.query, "")
			checkStatus(t, rec, http.StatusBadRequest)
			checkErrorCode(t, rec, tt.code)
		})
	}
	if backend.callCount() != 0 {
		t.Error("bad queries must not reach upstream")
	}
}

func TestTrail(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{history: func(_ string, from, _ time.Time) ([]models.Position, error) {
		return []models.Position{
			{Time: from, Latitude: 48.2000, Longitude: 16.3700},
			{Time: from.Add(10 * time.Minute), Latitude: 48.2090, Longitude: 16.3700},
			{Time: from.Add(20 * time.Minute), Latitude: 48.2180, Longitude: 16.3700},
		}, nil
	}}

	t.Run("with elevation", func(t *testing.T) {
		t.Parallel()
		enricher := stubEnricher{elevations: func(n int) []float64 { return []float64{170, 190, 180}[:n] }}
		h := newTestRouter(t, backend, testServerOptions{enricher: enricher})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/trail", "")
		checkStatus(t, rec, http.StatusOK)

		_, data := decodeResponse(t, rec)
		var got models.TrailReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Points != 3 || !got.Elevation {
			t.Errorf("trail = %+v", got)
		}
		if got.Stats.DistanceMeters < 1900 || got.Stats.DistanceMeters > 2100 {
			t.Errorf("distance = %v, want ~2000m", got.Stats.DistanceMeters)
		}
		if got.Stats.ElevationGain != 20 || got.Stats.ElevationLoss != 10 {
			t.Errorf("gain/loss = %v/%v", got.Stats.ElevationGain, got.Stats.ElevationLoss)
		}
	})

	t.Run("enrichment failure is omitted", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, backend, testServerOptions{enricher: stubEnricher{}})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/trail", "")
		checkStatus(t, rec, http.StatusOK)
		_, data := decodeResponse(t, rec)
		var got models.TrailReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Elevation || got.Stats.ElevationGain != 0 || got.Stats.DistanceMeters == 0 {
			t.Errorf("trail = %+v", got)
		}
	})
}

// ========================================
// Nearby and route
// ========================================

func latestBackend() *fakeBackend {
	return &fakeBackend{latest: func(id string) (models.Position, bool, error) {
		if id == "EMPTY" {
			return models.Position{}, false, nil
		}
		return models.Position{TrackerID: id, Time: testNow, Latitude: 48.2082, Longitude: 16.3738}, true, nil
	}}
}

func TestNearby(t *testing.T) {
	t.Parallel()

	places := []enrich.Place{{Name: "Stadtpark", Type: "park"}}
	tests := []struct {
		name         string
		enricher     enrich.Provider
		path         string
		wantFound    bool
		wantEnriched bool
		wantPlaces   int
		wantRadius   float64
	}{
		{"places around latest fix", stubEnricher{places: places}, "/api/v1/trackers/ABC/nearby?radius=250&types=park,vet", true, true, 1, 250},
		{"default radius", stubEnricher{places: places}, "/api/v1/trackers/ABC/nearby", true, true, 1, defaultNearbyRadius},
		{"lookup failure is omitted", stubEnricher{}, "/api/v1/trackers/ABC/nearby", true, false, 0, defaultNearbyRadius},
		{"enrichment disabled", nil, "/api/v1/trackers/ABC/nearby", true, false, 0, defaultNearbyRadius},
		{"no fix", stubEnricher{places: places}, "/api/v1/trackers/EMPTY/nearby", false, false, 0, defaultNearbyRadius},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newTestRouter(t, latestBackend(), testServerOptions{enricher: tt.enricher})
			rec := doRequest(t, h, http.MethodGet, tt.path, "")
			checkStatus(t, rec, http.StatusOK)

			_, data := decodeResponse(t, rec)
			var got models.NearbyReport
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if got.Found != tt.wantFound || got.Enriched != tt.wantEnriched || len(got.Places) != tt.wantPlaces {
				t.Errorf("nearby = %+v", got)
			}
			if got.RadiusMeters != tt.wantRadius {
				t.Errorf("radius = %v, want %v", got.RadiusMeters, tt.wantRadius)
			}
		})
	}
}

func TestRoute(t *testing.T) {
	t.Parallel()

	enricher := stubEnricher{routes: true}

	t.Run("from latest fix", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, latestBackend(), testServerOptions{enricher: enricher})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/route?to=48.21,16.37&mode=driving", "")
		checkStatus(t, rec, http.StatusOK)

		_, data := decodeResponse(t, rec)
		var got models.RouteReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Route == nil || got.Route.Mode != models.ModeDriving || got.Route.DistanceMeters != 1200 {
			t.Errorf("route = %+v", got.Route)
		}
		if got.Destination != (models.Coordinate{Latitude: 48.21, Longitude: 16.37}) || got.Position == nil {
			t.Errorf("report = %+v", got)
		}
	})

	t.Run("mode defaults to walking", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, latestBackend(), testServerOptions{enricher: enricher})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/route?to=48.21,16.37", "")
		_, data := decodeResponse(t, rec)
		var got models.RouteReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Route == nil || got.Route.Mode != models.ModeWalking {
			t.Errorf("route = %+v", got.Route)
		}
	})

	t.Run("lookup failure is omitted", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, latestBackend(), testServerOptions{enricher: stubEnricher{}})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/route?to=48.21,16.37", "")
		checkStatus(t, rec, http.StatusOK)
		_, data := decodeResponse(t, rec)
		var got models.RouteReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Route != nil || !got.Found {
			t.Errorf("report = %+v", got)
		}
	})
}

func TestNearbyAndRouteBadQuery(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	h := newTestRouter(t, backend, testServerOptions{enricher: stubEnricher{routes: true}})

	tests := []struct {
		name string
		path string
		code string
	}{
		{"non-numeric radius", "/api/v1/trackers/ABC/nearby?radius=far", ErrCodeBadRequest},
		{"zero radius", "/api/v1/trackers/ABC/nearby?radius=0", ErrCodeValidationFailed},
		{"huge radius", "/api/v1/trackers/ABC/nearby?radius=100000", ErrCodeValidationFailed},
		{"missing destination", "/api/v1/trackers/ABC/route", ErrCodeBadRequest},
		{"malformed destination", "/api/v1/trackers/ABC/route?to=48.2", ErrCodeBadRequest},
		{"latitude out of range", "/api/v1/trackers/ABC/route?to=91,16", ErrCodeValidationFailed},
		{"unknown mode", "/api/v1/trackers/ABC/route?to=48.2,16.3&mode=flying", ErrCodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, h, http.MethodGet, tt.path, "")
			checkStatus(t, rec, http.StatusBadRequest)
			checkErrorCode(t, rec, tt.code)
		})
	}
	if backend.callCount() != 0 {
		t.Error("bad queries must not reach upstream")
	}
}

func TestGeofences(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{geofences: func(string) ([]models.Geofence, error) {
		return []models.Geofence{{ID: "g1", Name: "Home", Shape: models.ShapeCircle, Active: true, RadiusMeters: 50}}, nil
	}}
	h := newTestRouter(t, backend, testServerOptions{})
	rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers/ABC/geofences", "")
	checkStatus(t, rec, http.StatusOK)
	resp, _ := decodeResponse(t, rec)
	if resp.Meta.Count == nil || *resp.Meta.Count != 1 {
		t.Errorf("count = %v", resp.Meta.Count)
	}
}

// ========================================
// Commands
// ========================================

func TestSetLiveTracking(t *testing.T) {
	t.Parallel()

	var gotActive bool
	backend := &fakeBackend{command: func(name, _ string, active bool) (bool, error) {
		gotActive = active
		return true, nil
	}}
	h := newTestRouter(t, backend, testServerOptions{})

	rec := doRequest(t, h, http.MethodPut, "/api/v1/trackers/ABC/live", `{"active":false}`)
	checkStatus(t, rec, http.StatusOK)
	if gotActive {
		t.Error("expected active=false to be forwarded")
	}
	_, data := decodeResponse(t, rec)
	var got models.CommandReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !got.Accepted || got.Command != "live_tracking" || got.Active == nil || *got.Active {
		t.Errorf("response = %+v", got)
	}

	for _, body := range []string{``, `{}`, `{"active":"yes"}`} {
		rec := doRequest(t, h, http.MethodPut, "/api/v1/trackers/ABC/live", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestTriggerCommands(t *testing.T) {
	t.Parallel()

	backend := &fakeBackend{}
	h := newTestRouter(t, backend, testServerOptions{})
	for _, name := range []string{"led", "buzzer"} {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/trackers/ABC/"+name, "")
		checkStatus(t, rec, http.StatusOK)
		_, data := decodeResponse(t, rec)
		var got models.CommandReport
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatal(err)
		}
		if got.Command != name || !got.Accepted {
			t.Errorf("%s response = %+v", name, got)
		}
	}
}

func TestCommandRateLimit(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	h := newTestRouter(t, &fakeBackend{}, testServerOptions{mw: cfg})

	var limited int
	for i := 0; i < RateLimitCommands.Requests+2; i++ {
		rec := doRequest(t, h, http.MethodPost, "/api/v1/trackers/ABC/led", "")
		if rec.Code == http.StatusTooManyRequests {
			limited++
			checkErrorCode(t, rec, ErrCodeTooManyRequests)
		}
	}
	if limited != 2 {
		t.Errorf("limited = %d, want 2", limited)
	}
}

// ========================================
// Failure mapping
// ========================================

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestFailureMapping(t *testing.T) {
	t.Parallel()

	rateLimited := &failure.Error{Kind: failure.RateLimit, Underlying: failure.RateLimit, Op: "list_trackers", Status: 429, RetryAfter: 2 * time.Second}
	network := &failure.Error{Kind: failure.Network, Underlying: failure.Network, Op: "list_trackers", Status: 503}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"auth", failure.New(failure.Auth, "list_trackers", "credentials rejected", errors.New("401")), http.StatusUnauthorized, "UPSTREAM_AUTH"},
		{"rate limit exhausted", failure.Exhausted(rateLimited, 3), http.StatusTooManyRequests, "UPSTREAM_EXHAUSTED"},
		{"network exhausted", failure.Exhausted(network, 3), http.StatusBadGateway, "UPSTREAM_EXHAUSTED"},
		{"network timeout", &failure.Error{Kind: failure.Network, Underlying: failure.Network, Err: timeoutErr{}}, http.StatusGatewayTimeout, "UPSTREAM_NETWORK"},
		{"not found", &failure.Error{Kind: failure.Fatal, Underlying: failure.Fatal, Status: 404, Err: errors.New("404")}, http.StatusNotFound, "NOT_FOUND"},
		{"schema mismatch", failure.SchemaMismatch("list_trackers", errors.New("bad")), http.StatusBadGateway, "UPSTREAM_SCHEMA_MISMATCH"},
		{"invalid range", failure.Invalid("history", failure.ErrInvalidRange), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"handler deadline", failure.Canceled("list_trackers", context.DeadlineExceeded), http.StatusGatewayTimeout, ErrCodeGatewayTimeout},
		{"unclassified", fmt.Errorf("boom"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			backend := &fakeBackend{trackers: func() ([]models.Tracker, error) { return nil, tt.err }}
			h := newTestRouter(t, backend, testServerOptions{})
			rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers", "")
			checkStatus(t, rec, tt.wantStatus)
			checkErrorCode(t, rec, tt.wantCode)
		})
	}
}

func TestFailureRetryAfterHeader(t *testing.T) {
	t.Parallel()

	last := &failure.Error{Kind: failure.RateLimit, Underlying: failure.RateLimit, Status: 429, RetryAfter: 3 * time.Second}
	backend := &fakeBackend{trackers: func() ([]models.Tracker, error) { return nil, failure.Exhausted(last, 4) }}
	h := newTestRouter(t, backend, testServerOptions{})

	rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers", "")
	checkStatus(t, rec, http.StatusTooManyRequests)
	if got := rec.Header().Get("Retry-After"); got != "3" {
		t.Errorf("Retry-After = %q, want 3", got)
	}
	resp, _ := decodeResponse(t, rec)
	details, _ := resp.Error.Details.(map[string]interface{})
	if details["underlying"] != "rate_limit" || details["attempts"] != float64(4) {
		t.Errorf("details = %+v", resp.Error.Details)
	}
}

func TestFailureDetailOnlyInDebug(t *testing.T) {
	t.Parallel()

	fe := &failure.Error{Kind: failure.Fatal, Underlying: failure.Fatal, Status: 400, Detail: `{"message":"bad tracker"}`, Err: errors.New("400")}
	backend := &fakeBackend{trackers: func() ([]models.Tracker, error) { return nil, fe }}

	for _, debug := range []bool{false, true} {
		h := newTestRouter(t, backend, testServerOptions{debug: debug})
		rec := doRequest(t, h, http.MethodGet, "/api/v1/trackers", "")
		checkStatus(t, rec, http.StatusBadRequest)
		hasDetail := strings.Contains(rec.Body.String(), "bad tracker")
		if hasDetail != debug {
			t.Errorf("debug=%v: detail present = %v", debug, hasDetail)
		}
	}
}
