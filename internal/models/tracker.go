// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Package models holds the typed records produced by the tracking client.
// They are read-only projections of upstream data built per response.
package models

import (
	"fmt"
	"log/slog"
	"time"
)

// Credentials identify the Tractive account. Supplied once at start-up.
type Credentials struct {
	Email    string
	Password string
}

// String never includes the password.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Email: %q, Password: ***}", c.Email)
}

// LogValue keeps the password out of slog output.
func (c Credentials) LogValue() slog.Value {
	return slog.GroupValue(slog.String("email", c.Email), slog.String("password", "***"))
}

// Empty reports whether either field is missing.
func (c Credentials) Empty() bool {
	return c.Email == "" || c.Password == ""
}

// Session is an authenticated upstream session.
type Session struct {
	Token     string    `json:"-"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Valid reports whether the token is non-empty and now is before ExpiresAt.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

// BatteryState describes whether the tracker is on its charger.
type BatteryState string

const (
	BatteryCharging    BatteryState = "charging"
	BatteryDischarging BatteryState = "discharging"
	BatteryUnknown     BatteryState = "unknown"
)

// Tracker is a GPS collar registered to the account.
type Tracker struct {
	ID              string       `json:"id"`
	Name            string       `json:"name,omitempty"`
	PetID           string       `json:"pet_id,omitempty"`
	PetName         string       `json:"pet_name,omitempty"`
	Model           string       `json:"model,omitempty"`
	FirmwareVersion string       `json:"firmware_version,omitempty"`
	HardwareID      string       `json:"hardware_id,omitempty"`
	BatteryLevel    *int         `json:"battery_level,omitempty"` // 0-100, nil when not reported
	BatteryState    BatteryState `json:"battery_state"`
	Capabilities    []string     `json:"capabilities,omitempty"`
}

// DisplayName prefers the pet name, then the tracker name, then the id.
func (t Tracker) DisplayName() string {
	switch {
	case t.PetName != "":
		return t.PetName
	case t.Name != "":
		return t.Name
	default:
		return t.ID
	}
}

// HasCapability reports whether the tracker advertises capability c.
func (t Tracker) HasCapability(c string) bool {
	for _, have := range t.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
