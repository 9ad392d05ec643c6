// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pawtrack/internal/models"
	"github.com/tomtom215/pawtrack/internal/trail"
	"github.com/tomtom215/pawtrack/internal/validation"
)

// defaultNearbyRadius applies when /nearby has no radius.
const defaultNearbyRadius = 500.0

// ListTrackers handles GET /api/v1/trackers.
func (h *Handler) ListTrackers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestContext(r)
	defer cancel()

	trackers, err := h.client.ListTrackers(ctx)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	NewResponseWriter(w, r).SuccessWithCount(trackers, len(trackers))
}

// GetTracker handles GET /api/v1/trackers/{id}.
func (h *Handler) GetTracker(w http.ResponseWriter, r *http.Request) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	tracker, err := h.client.Tracker(ctx, id)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	WriteSuccess(w, r, tracker)
}

// LatestPosition handles GET /api/v1/trackers/{id}/position/latest. No fix
// in the window is a 200 with found=false. ?address=true adds a
// best-effort street address.
func (h *Handler) LatestPosition(w http.ResponseWriter, r *http.Request) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	pos, found, err := h.client.LatestPosition(ctx, id)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}

	if found && getBoolParam(r, "address") {
		h.enrich.AnnotatePosition(ctx, &pos)
	}
	WriteSuccess(w, r, models.NewLatestReport(id, pos, found))
}

// Positions handles GET /api/v1/trackers/{id}/positions?from&to&max_points.
func (h *Handler) Positions(w http.ResponseWriter, r *http.Request) {
	req, from, to, ok := h.historyRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	positions, err := h.client.PositionHistory(ctx, req.TrackerID, from, to)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	positions = trail.Downsample(positions, req.MaxPoints)
	NewResponseWriter(w, r).SuccessWithCount(positions, len(positions))
}

// Trail handles GET /api/v1/trackers/{id}/trail?from&to. Elevation data
// comes from the tracker when every fix has an altitude, otherwise from
// enrichment; without either, elevation stats are zero.
func (h *Handler) Trail(w http.ResponseWriter, r *http.Request) {
	req, from, to, ok := h.historyRequest(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	positions, err := h.client.PositionHistory(ctx, req.TrackerID, from, to)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}

	elevations, haveElevation := h.enrich.Elevations(ctx, positions)
	WriteSuccess(w, r, models.TrailReport{
		TrackerID: req.TrackerID,
		From:      from,
		To:        to,
		Points:    len(positions),
		Elevation: haveElevation,
		Stats:     trail.ComputeStats(positions, elevations),
	})
}

// Geofences handles GET /api/v1/trackers/{id}/geofences.
func (h *Handler) Geofences(w http.ResponseWriter, r *http.Request) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	fences, err := h.client.Geofences(ctx, id)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	NewResponseWriter(w, r).SuccessWithCount(fences, len(fences))
}

// Nearby handles GET /api/v1/trackers/{id}/nearby?radius&types. Places
// are looked up around the latest fix; a failed lookup leaves them out.
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	radius, err := getFloatParam(r, "radius", defaultNearbyRadius)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := NearbyRequest{TrackerID: id, RadiusMeters: radius, Types: getListParam(r, "types")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	pos, found, err := h.client.LatestPosition(ctx, id)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	WriteSuccess(w, r, h.enrich.NearbyReport(ctx, models.NewLatestReport(id, pos, found), req.RadiusMeters, req.Types))
}

// Route handles GET /api/v1/trackers/{id}/route?to=lat,lng&mode. The
// route starts at the latest fix; a failed lookup leaves it out.
func (h *Handler) Route(w http.ResponseWriter, r *http.Request) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return
	}
	rw := NewResponseWriter(w, r)
	raw := r.URL.Query().Get("to")
	if raw == "" {
		rw.BadRequest("to is required: lat,lng")
		return
	}
	dest, err := models.ParseCoordinate(raw)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}
	req := RouteRequest{TrackerID: id, Destination: dest, Mode: r.URL.Query().Get("mode")}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}
	mode, _ := models.ParseTravelMode(req.Mode)

	ctx, cancel := h.requestContext(r)
	defer cancel()

	pos, found, err := h.client.LatestPosition(ctx, id)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	WriteSuccess(w, r, h.enrich.RouteReport(ctx, models.NewLatestReport(id, pos, found), dest, mode))
}

// historyRequest parses and validates the shared history query. The range
// order is left to the client, which rejects from > to as a Fatal
// precondition.
func (h *Handler) historyRequest(w http.ResponseWriter, r *http.Request) (HistoryRequest, time.Time, time.Time, bool) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return HistoryRequest{}, time.Time{}, time.Time{}, false
	}

	rw := NewResponseWriter(w, r)
	from, to, err := h.timeRange(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return HistoryRequest{}, time.Time{}, time.Time{}, false
	}
	maxPoints, err := getIntParam(r, "max_points", 0)
	if err != nil {
		rw.BadRequest(err.Error())
		return HistoryRequest{}, time.Time{}, time.Time{}, false
	}

	req := HistoryRequest{TrackerID: id, MaxPoints: maxPoints}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return HistoryRequest{}, time.Time{}, time.Time{}, false
	}
	return req, from, to, true
}
