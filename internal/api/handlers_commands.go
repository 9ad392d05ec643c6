// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package api

import (
	"context"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/models"
	"github.com/tomtom215/pawtrack/internal/validation"
)

const maxCommandBody = 4 * 1024

// SetLiveTracking handles PUT /api/v1/trackers/{id}/live with a body of
// {"active": true|false}.
func (h *Handler) SetLiveTracking(w http.ResponseWriter, r *http.Request) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return
	}

	var req LiveTrackingRequest
	rw := NewResponseWriter(w, r)
	if err := json.NewDecoder(io.LimitReader(r.Body, maxCommandBody)).Decode(&req); err != nil {
		rw.BadRequest("body must be JSON: {\"active\": true|false}")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		rw.ValidationError(verr.Error(), verr.Details())
		return
	}

	ctx, cancel := h.requestContext(r)
	defer cancel()

	accepted, err := h.client.SetLiveTracking(ctx, id, *req.Active)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	logging.Ctx(ctx).Info().Str("tracker_id", id).Bool("active", *req.Active).Msg("Live tracking toggled")
	WriteSuccess(w, r, models.CommandReport{TrackerID: id, Command: "live_tracking", Accepted: accepted, Active: req.Active})
}

// TriggerLED handles POST /api/v1/trackers/{id}/led.
func (h *Handler) TriggerLED(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, r, "led", h.client.TriggerLED)
}

// TriggerBuzzer handles POST /api/v1/trackers/{id}/buzzer.
func (h *Handler) TriggerBuzzer(w http.ResponseWriter, r *http.Request) {
	h.trigger(w, r, "buzzer", h.client.TriggerBuzzer)
}

func (h *Handler) trigger(w http.ResponseWriter, r *http.Request, name string, fn func(context.Context, string) (bool, error)) {
	id, ok := trackerIDParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := h.requestContext(r)
	defer cancel()

	accepted, err := fn(ctx, id)
	if err != nil {
		writeFailure(w, r, err, h.debug)
		return
	}
	logging.Ctx(ctx).Info().Str("tracker_id", id).Str("command", name).Msg("Device command sent")
	WriteSuccess(w, r, models.CommandReport{TrackerID: id, Command: name, Accepted: accepted})
}
