// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package tractive

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawtrack/internal/models"
	"github.com/tomtom215/pawtrack/internal/validation"
)

// Wire types mirror the upstream JSON. The API is unofficial, so several
// fields accept more than one spelling and every decoded record is
// validated before it becomes a model.

// flexString accepts a JSON string or number.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = flexString(n.String())
	return nil
}

// flexTime accepts unix seconds (integer or fractional, number or string)
// or an RFC 3339 timestamp.
type flexTime struct {
	time.Time
}

func (t *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			t.Time = ts.UTC()
			return nil
		}
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return fmt.Errorf("invalid timestamp %q", raw)
	}
	whole, frac := math.Modf(secs)
	t.Time = time.Unix(int64(whole), int64(frac*1e9)).UTC()
	return nil
}

// ============================================================================
// Authentication
// ============================================================================

type authRequest struct {
	Email     string `json:"platform_email"`
	Password  string `json:"platform_token"`
	GrantType string `json:"grant_type"`
}

type authResponse struct {
	AccessToken      string     `json:"access_token"`
	Token            string     `json:"token"`
	AuthToken        string     `json:"auth_token"`
	UserID           flexString `json:"user_id"`
	UserIDCamel      flexString `json:"userId"`
	ExpiresAt        *flexTime  `json:"expires_at"`
	ExpiresIn        *float64   `json:"expires_in"`
	ExpiresInSeconds *float64   `json:"expiresInSeconds"`
}

type grantFields struct {
	Token  string `json:"access_token" validate:"required"`
	UserID string `json:"user_id" validate:"required"`
}

func parseGrant(body []byte) (Grant, error) {
	var dto authResponse
	if err := json.Unmarshal(body, &dto); err != nil {
		return Grant{}, fmt.Errorf("decode auth response: %w", err)
	}

	fields := grantFields{
		Token:  firstNonEmpty(dto.AccessToken, dto.Token, dto.AuthToken),
		UserID: firstNonEmpty(string(dto.UserID), string(dto.UserIDCamel)),
	}
	if verr := validation.ValidateStruct(&fields); verr != nil {
		return Grant{}, verr
	}

	g := Grant{Token: fields.Token, UserID: fields.UserID}
	if dto.ExpiresAt != nil && !dto.ExpiresAt.IsZero() {
		g.ExpiresAt = dto.ExpiresAt.Time
	}
	for _, secs := range []*float64{dto.ExpiresIn, dto.ExpiresInSeconds} {
		if secs != nil && *secs > 0 {
			g.ExpiresIn = time.Duration(*secs * float64(time.Second))
			break
		}
	}
	return g, nil
}

// ============================================================================
// Trackers
// ============================================================================

type trackerDTO struct {
	ID              string     `json:"_id" validate:"required"`
	Type            string     `json:"_type"`
	Name            string     `json:"name"`
	PetID           flexString `json:"pet_id"`
	PetName         string     `json:"pet_name"`
	ModelNumber     string     `json:"model_number"`
	FirmwareVersion string     `json:"fw_version"`
	HardwareID      string     `json:"hw_id"`
	BatteryLevel    *float64   `json:"battery_level" validate:"omitempty,gte=0,lte=100"`
	Charging        *bool      `json:"charging"`
	ChargingState   string     `json:"charging_state"`
	Capabilities    []string   `json:"capabilities"`
}

// reference reports whether the record is only an id pointer that has to
// be fetched separately, which is how the list endpoint answers.
func (d trackerDTO) reference() bool {
	return d.Name == "" && d.PetName == "" && d.ModelNumber == "" &&
		d.FirmwareVersion == "" && d.HardwareID == "" && d.BatteryLevel == nil &&
		len(d.Capabilities) == 0
}

func (d trackerDTO) model() models.Tracker {
	t := models.Tracker{
		ID:              d.ID,
		Name:            d.Name,
		PetID:           string(d.PetID),
		PetName:         d.PetName,
		Model:           d.ModelNumber,
		FirmwareVersion: d.FirmwareVersion,
		HardwareID:      d.HardwareID,
		BatteryState:    batteryState(d.Charging, d.ChargingState),
		Capabilities:    d.Capabilities,
	}
	if d.BatteryLevel != nil {
		level := int(math.Round(*d.BatteryLevel))
		t.BatteryLevel = &level
	}
	return t
}

func batteryState(charging *bool, state string) models.BatteryState {
	switch strings.ToUpper(strings.TrimSpace(state)) {
	case "CHARGING":
		return models.BatteryCharging
	case "NOT_CHARGING", "DISCHARGING":
		return models.BatteryDischarging
	}
	if charging != nil {
		if *charging {
			return models.BatteryCharging
		}
		return models.BatteryDischarging
	}
	return models.BatteryUnknown
}

func parseTracker(body []byte) (trackerDTO, error) {
	var dto trackerDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return trackerDTO{}, fmt.Errorf("decode tracker: %w", err)
	}
	if verr := validation.ValidateStruct(&dto); verr != nil {
		return trackerDTO{}, verr
	}
	return dto, nil
}

// parseTrackerList accepts a bare array or {"trackers": [...]}.
func parseTrackerList(body []byte) ([]trackerDTO, error) {
	items, err := unwrapList(body, "trackers")
	if err != nil {
		return nil, err
	}
	out := make([]trackerDTO, 0, len(items))
	for i, raw := range items {
		dto, err := parseTracker(raw)
		if err != nil {
			return nil, fmt.Errorf("tracker %d: %w", i, err)
		}
		out = append(out, dto)
	}
	return out, nil
}

// ============================================================================
// Positions
// ============================================================================

type positionDTO struct {
	Time           *flexTime  `json:"time" validate:"required"`
	LatLong        []float64  `json:"latlong" validate:"omitempty,len=2"`
	Lat            *float64   `json:"lat"`
	Lng            *float64   `json:"lng"`
	Lon            *float64   `json:"lon"`
	Speed          *float64   `json:"speed"`
	PosUncertainty *float64   `json:"pos_uncertainty"`
	Accuracy       *float64   `json:"accuracy"`
	Altitude       *float64   `json:"altitude"`
	Alt            *float64   `json:"alt"`
	SensorUsed     string     `json:"sensor_used"`
	PosStatus      flexString `json:"pos_status"`
}

var errMissingCoordinates = errors.New("position has no coordinates")

func (d positionDTO) model(trackerID string) (models.Position, error) {
	if verr := validation.ValidateStruct(&d); verr != nil {
		return models.Position{}, verr
	}

	var coord models.Coordinate
	switch {
	case len(d.LatLong) == 2:
		coord = models.Coordinate{Latitude: d.LatLong[0], Longitude: d.LatLong[1]}
	case d.Lat != nil && (d.Lng != nil || d.Lon != nil):
		lng := d.Lng
		if lng == nil {
			lng = d.Lon
		}
		coord = models.Coordinate{Latitude: *d.Lat, Longitude: *lng}
	default:
		return models.Position{}, errMissingCoordinates
	}
	if verr := validation.ValidateStruct(&coord); verr != nil {
		return models.Position{}, verr
	}

	p := models.Position{
		TrackerID:  trackerID,
		Time:       d.Time.Time,
		Latitude:   coord.Latitude,
		Longitude:  coord.Longitude,
		Speed:      nonNegative(d.Speed),
		Accuracy:   nonNegative(firstNonNil(d.PosUncertainty, d.Accuracy)),
		SensorUsed: d.SensorUsed,
		PosStatus:  string(d.PosStatus),
	}
	if alt := firstNonNil(d.Altitude, d.Alt); alt != nil {
		v := *alt
		p.Altitude = &v
	}
	return p, nil
}

// parsePositions accepts the json_segments format (an array of arrays),
// a flat array, {"positions": [...]} and a single position object.
func parsePositions(body []byte, trackerID string) ([]models.Position, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return nil, nil
	}

	var dtos []positionDTO
	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode positions: %w", err)
		}
		for _, item := range items {
			item = bytes.TrimSpace(item)
			if len(item) > 0 && item[0] == '[' {
				var segment []positionDTO
				if err := json.Unmarshal(item, &segment); err != nil {
					return nil, fmt.Errorf("decode segment: %w", err)
				}
				dtos = append(dtos, segment...)
				continue
			}
			var dto positionDTO
			if err := json.Unmarshal(item, &dto); err != nil {
				return nil, fmt.Errorf("decode position: %w", err)
			}
			dtos = append(dtos, dto)
		}
	case '{':
		var wrapped struct {
			Positions json.RawMessage `json:"positions"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("decode positions: %w", err)
		}
		if len(wrapped.Positions) > 0 {
			return parsePositions(wrapped.Positions, trackerID)
		}
		var dto positionDTO
		if err := json.Unmarshal(body, &dto); err != nil {
			return nil, fmt.Errorf("decode position: %w", err)
		}
		dtos = append(dtos, dto)
	default:
		return nil, fmt.Errorf("unexpected positions payload starting with %q", body[0])
	}

	out := make([]models.Position, 0, len(dtos))
	for i, dto := range dtos {
		p, err := dto.model(trackerID)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ============================================================================
// Geofences
// ============================================================================

type geofenceDTO struct {
	ID          string      `json:"_id"`
	AltID       flexString  `json:"id"`
	Type        string      `json:"_type"`
	Name        string      `json:"name"`
	Shape       string      `json:"shape"`
	FenceType   string      `json:"fence_type"`
	Active      *bool       `json:"active"`
	Enabled     *bool       `json:"enabled"`
	Coords      [][]float64 `json:"coords"`
	Coordinates [][]float64 `json:"coordinates"`
	Center      []float64   `json:"center"`
	Radius      *float64    `json:"radius" validate:"omitempty,gte=0"`
}

func (d geofenceDTO) id() string {
	return firstNonEmpty(d.ID, string(d.AltID))
}

func (d geofenceDTO) reference() bool {
	return d.Name == "" && d.Shape == "" && d.FenceType == "" && d.Radius == nil &&
		len(d.Coords) == 0 && len(d.Coordinates) == 0 && len(d.Center) == 0
}

func (d geofenceDTO) model() (models.Geofence, error) {
	if verr := validation.ValidateStruct(&d); verr != nil {
		return models.Geofence{}, verr
	}
	id := d.id()
	if id == "" {
		return models.Geofence{}, errors.New("geofence has no id")
	}

	points := d.Coords
	if len(points) == 0 {
		points = d.Coordinates
	}
	vertices := make([]models.Coordinate, 0, len(points))
	for i, pt := range points {
		c, err := coordinateFrom(pt)
		if err != nil {
			return models.Geofence{}, fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices = append(vertices, c)
	}

	g := models.Geofence{ID: id, Name: d.Name, Active: true}
	if b := firstNonNil(d.Active, d.Enabled); b != nil {
		g.Active = *b
	}

	shape := strings.ToLower(firstNonEmpty(d.Shape, d.FenceType))
	switch {
	case shape == "circle" || (shape == "" && d.Radius != nil):
		g.Shape = models.ShapeCircle
		if d.Radius != nil {
			g.RadiusMeters = *d.Radius
		}
		switch {
		case len(d.Center) > 0:
			c, err := coordinateFrom(d.Center)
			if err != nil {
				return models.Geofence{}, fmt.Errorf("center: %w", err)
			}
			g.Center = &c
		case len(vertices) > 0:
			c := vertices[0]
			g.Center = &c
		}
	case shape == "polygon" || (shape == "" && len(vertices) > 0):
		g.Shape = models.ShapePolygon
		g.Vertices = vertices
	default:
		return models.Geofence{}, fmt.Errorf("unknown geofence shape %q", shape)
	}
	return g, nil
}

func parseGeofence(body []byte) (geofenceDTO, error) {
	var dto geofenceDTO
	if err := json.Unmarshal(body, &dto); err != nil {
		return geofenceDTO{}, fmt.Errorf("decode geofence: %w", err)
	}
	return dto, nil
}

// parseGeofenceList accepts a bare array or {"geofences": [...]}.
func parseGeofenceList(body []byte) ([]geofenceDTO, error) {
	items, err := unwrapList(body, "geofences")
	if err != nil {
		return nil, err
	}
	out := make([]geofenceDTO, 0, len(items))
	for i, raw := range items {
		dto, err := parseGeofence(raw)
		if err != nil {
			return nil, fmt.Errorf("geofence %d: %w", i, err)
		}
		out = append(out, dto)
	}
	return out, nil
}

// ============================================================================
// Helpers
// ============================================================================

// unwrapList returns the elements of a bare JSON array or of the array
// stored under key in an object. null and empty bodies are empty lists.
func unwrapList(body []byte, key string) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return nil, nil
	}
	switch body[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		return items, nil
	case '{':
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		inner, ok := wrapped[key]
		if !ok {
			return nil, fmt.Errorf("object has no %q field", key)
		}
		return unwrapList(inner, key)
	default:
		return nil, fmt.Errorf("unexpected %s payload", key)
	}
}

func coordinateFrom(pt []float64) (models.Coordinate, error) {
	if len(pt) != 2 {
		return models.Coordinate{}, fmt.Errorf("expected [lat, lng], got %d values", len(pt))
	}
	c := models.Coordinate{Latitude: pt[0], Longitude: pt[1]}
	if verr := validation.ValidateStruct(&c); verr != nil {
		return models.Coordinate{}, verr
	}
	return c, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonNil[T any](values ...*T) *T {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// nonNegative treats absent and negative readings (the tracker reports -1
// for "unknown") as zero.
func nonNegative(v *float64) float64 {
	if v == nil || *v < 0 || math.IsNaN(*v) {
		return 0
	}
	return *v
}
