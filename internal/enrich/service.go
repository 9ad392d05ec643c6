// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package enrich

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/pawtrack/internal/cache"
	"github.com/tomtom215/pawtrack/internal/config"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/metrics"
	"github.com/tomtom215/pawtrack/internal/models"
	"github.com/tomtom215/pawtrack/internal/trail"
)

const (
	defaultTimeout   = 5 * time.Second
	geocodePrecision = 4
	geocodeCacheSize = 4096
)

// Service wraps a Provider so that enrichment never fails the caller.
// Each call is bounded by its own timeout; a failed call is logged at warn,
// counted, and reported as "not available".
type Service struct {
	provider Provider
	timeout  time.Duration
	enabled  bool
	geocodes *cache.LRU[string]
}

// NewService creates a Service. A nil provider means enrichment is off.
func NewService(p Provider, timeout, cacheTTL time.Duration, opts ...cache.Option) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	_, disabled := p.(Disabled)
	if p == nil {
		p, disabled = Disabled{}, true
	}
	return &Service{
		provider: p,
		timeout:  timeout,
		enabled:  !disabled,
		geocodes: cache.New[string](geocodeCacheSize, cacheTTL, opts...),
	}
}

// NewServiceFromConfig builds the gateway-backed Service, or a disabled
// one when enrichment is not enabled.
func NewServiceFromConfig(cfg config.EnrichmentConfig) *Service {
	if !cfg.Enabled {
		return NewService(Disabled{}, cfg.Timeout, cfg.CacheTTL)
	}
	return NewService(NewHTTPProvider(cfg.BaseURL, cfg.APIKey, nil), cfg.Timeout, cfg.CacheTTL)
}

// Enabled reports whether a real provider is configured.
func (s *Service) Enabled() bool {
	return s.enabled
}

// Address returns the street address for a coordinate. Misses (no address
// known) are cached too, so a point in a field is looked up once per TTL.
func (s *Service) Address(ctx context.Context, at models.Coordinate) (string, bool) {
	if !s.enabled {
		return "", false
	}
	key := cache.CoordinateKey("geo", at.Latitude, at.Longitude, geocodePrecision)
	if addr, ok := s.geocodes.Get(key); ok {
		metrics.EnrichmentCacheHits.Inc()
		return addr, addr != ""
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	addr, found, err := s.provider.ReverseGeocode(ctx, at)
	if err != nil {
		s.failed(ctx, "reverse_geocode", err)
		return "", false
	}
	if !found {
		addr = ""
	}
	s.geocodes.Set(key, addr)
	return addr, found
}

// AnnotatePosition fills p.Address when an address is available. p is left
// untouched otherwise.
func (s *Service) AnnotatePosition(ctx context.Context, p *models.Position) {
	if p == nil {
		return
	}
	if addr, ok := s.Address(ctx, models.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}); ok {
		p.Address = addr
	}
}

// Route returns walking/driving distance and ETA between two points.
func (s *Service) Route(ctx context.Context, from, to models.Coordinate, mode TravelMode) (Route, bool) {
	if !s.enabled {
		return Route{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	r, err := s.provider.Distance(ctx, from, to, mode)
	if err != nil {
		s.failed(ctx, "distance", err)
		return Route{}, false
	}
	return r, true
}

// Nearby returns points of interest within radiusMeters of at.
func (s *Service) Nearby(ctx context.Context, at models.Coordinate, radiusMeters float64, types []string) ([]Place, bool) {
	if !s.enabled {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	places, err := s.provider.NearbyPlaces(ctx, at, radiusMeters, types)
	if err != nil {
		s.failed(ctx, "nearby_places", err)
		return nil, false
	}
	return places, true
}

// NearbyReport looks up places around the latest fix in latest. Without a
// fix no lookup is made.
func (s *Service) NearbyReport(ctx context.Context, latest models.LatestReport, radiusMeters float64, types []string) models.NearbyReport {
	rep := models.NearbyReport{LatestReport: latest, RadiusMeters: radiusMeters}
	if latest.Position == nil {
		return rep
	}
	places, ok := s.Nearby(ctx, latest.Position.Coordinate(), radiusMeters, types)
	if ok {
		rep.Enriched = true
		rep.Places = places
	}
	return rep
}

// RouteReport computes distance and ETA from the latest fix in latest to
// dest. Without a fix no lookup is made.
func (s *Service) RouteReport(ctx context.Context, latest models.LatestReport, dest models.Coordinate, mode TravelMode) models.RouteReport {
	rep := models.RouteReport{LatestReport: latest, Destination: dest}
	if latest.Position == nil {
		return rep
	}
	if r, ok := s.Route(ctx, latest.Position.Coordinate(), dest, mode); ok {
		rep.Route = &r
	}
	return rep
}

// Elevations returns one altitude per position. Positions that all carry a
// tracker-reported altitude are answered locally; otherwise the provider
// is asked for the whole trail.
func (s *Service) Elevations(ctx context.Context, positions []models.Position) ([]float64, bool) {
	if len(positions) == 0 {
		return nil, false
	}
	if local := trail.Altitudes(positions); local != nil {
		return local, true
	}
	if !s.enabled {
		return nil, false
	}

	points := make([]models.Coordinate, len(positions))
	for i, p := range positions {
		points[i] = models.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	elev, err := s.provider.Elevation(ctx, points)
	if err == nil && len(elev) != len(points) {
		err = errors.New("elevation count mismatch")
	}
	if err != nil {
		s.failed(ctx, "elevation", err)
		return nil, false
	}
	return elev, true
}

func (s *Service) failed(ctx context.Context, call string, err error) {
	if errors.Is(err, ErrDisabled) {
		return
	}
	metrics.RecordEnrichmentFailure(call)
	logging.Ctx(ctx).Warn().Err(err).Str("call", call).Msg("Enrichment unavailable, omitting")
}
