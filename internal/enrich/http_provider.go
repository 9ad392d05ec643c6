// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package enrich

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawtrack/internal/models"
)

const maxGatewayBody = 4 * 1024 * 1024

// HTTPProvider talks to an enrichment gateway that fronts the actual
// mapping services:
//
//	GET  /reverse?lat=&lng=                       {"address": "..."}
//	GET  /route?from=lat,lng&to=lat,lng&mode=     {"distance_m": n, "duration_s": n}
//	GET  /places?lat=&lng=&radius=&types=a,b      {"places": [{"name","type","lat","lng","distance_m"}]}
//	POST /elevation {"locations":[{"lat","lng"}]} {"elevations": [n, ...]}
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Provider = (*HTTPProvider)(nil)

// NewHTTPProvider creates a gateway provider. A nil client gets a default
// one with a 10s timeout.
func NewHTTPProvider(baseURL, apiKey string, hc *http.Client) *HTTPProvider {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: hc,
	}
}

func (p *HTTPProvider) ReverseGeocode(ctx context.Context, at models.Coordinate) (string, bool, error) {
	q := url.Values{}
	q.Set("lat", formatFloat(at.Latitude))
	q.Set("lng", formatFloat(at.Longitude))

	var out struct {
		Address string `json:"address"`
	}
	status, err := p.do(ctx, http.MethodGet, "/reverse", q, nil, &out)
	if status == http.StatusNotFound {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if out.Address == "" {
		return "", false, nil
	}
	return out.Address, true, nil
}

func (p *HTTPProvider) Distance(ctx context.Context, from, to models.Coordinate, mode TravelMode) (Route, error) {
	if mode == "" {
		mode = ModeWalking
	}
	q := url.Values{}
	q.Set("from", formatFloat(from.Latitude)+","+formatFloat(from.Longitude))
	q.Set("to", formatFloat(to.Latitude)+","+formatFloat(to.Longitude))
	q.Set("mode", string(mode))

	var out Route
	if _, err := p.do(ctx, http.MethodGet, "/route", q, nil, &out); err != nil {
		return Route{}, err
	}
	out.Mode = mode
	return out, nil
}

func (p *HTTPProvider) NearbyPlaces(ctx context.Context, at models.Coordinate, radiusMeters float64, types []string) ([]Place, error) {
	q := url.Values{}
	q.Set("lat", formatFloat(at.Latitude))
	q.Set("lng", formatFloat(at.Longitude))
	q.Set("radius", formatFloat(radiusMeters))
	if len(types) > 0 {
		q.Set("types", strings.Join(types, ","))
	}

	var out struct {
		Places []struct {
			Name     string  `json:"name"`
			Type     string  `json:"type"`
			Lat      float64 `json:"lat"`
			Lng      float64 `json:"lng"`
			Distance float64 `json:"distance_m"`
		} `json:"places"`
	}
	if _, err := p.do(ctx, http.MethodGet, "/places", q, nil, &out); err != nil {
		return nil, err
	}

	places := make([]Place, 0, len(out.Places))
	for _, pl := range out.Places {
		places = append(places, Place{
			Name:           pl.Name,
			Type:           pl.Type,
			Location:       models.Coordinate{Latitude: pl.Lat, Longitude: pl.Lng},
			DistanceMeters: pl.Distance,
		})
	}
	return places, nil
}

func (p *HTTPProvider) Elevation(ctx context.Context, points []models.Coordinate) ([]float64, error) {
	if len(points) == 0 {
		return nil, nil
	}
	body := struct {
		Locations []models.Coordinate `json:"locations"`
	}{Locations: points}

	var out struct {
		Elevations []float64 `json:"elevations"`
	}
	if _, err := p.do(ctx, http.MethodPost, "/elevation", nil, body, &out); err != nil {
		return nil, err
	}
	if len(out.Elevations) != len(points) {
		return nil, fmt.Errorf("elevation: got %d values for %d points", len(out.Elevations), len(points))
	}
	return out.Elevations, nil
}

// do returns the response status alongside any error so callers can treat
// specific statuses as answers rather than failures.
func (p *HTTPProvider) do(ctx context.Context, method, path string, query url.Values, body, result interface{}) (int, error) {
	reqURL := p.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode %s: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("enrichment %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, fmt.Errorf("enrichment %s: HTTP %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxGatewayBody)).Decode(result); err != nil {
		return resp.StatusCode, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp.StatusCode, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
