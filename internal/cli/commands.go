// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/models"
	"github.com/tomtom215/pawtrack/internal/trail"
	"github.com/tomtom215/pawtrack/internal/validation"
)

// maxNearbyRadius matches the HTTP API limit.
const maxNearbyRadius = 50000.0

func (a *App) loginTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login-test",
		Short: "Authenticate and report the session without touching trackers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.client.Login(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "Login OK: user %s, session valid until %s\n",
				session.UserID, session.ExpiresAt.UTC().Format(time.RFC3339))
			return err
		},
	}
}

func (a *App) trackersCommand() *cobra.Command {
	var (
		format      string
		batteryOnly bool
	)
	cmd := &cobra.Command{
		Use:     "trackers",
		Aliases: []string{"ls"},
		Short:   "List trackers on the account",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			trackers, err := a.client.ListTrackers(cmd.Context())
			if err != nil {
				return err
			}
			if len(trackers) == 0 {
				fmt.Fprintln(a.stderr, "No trackers found")
			}
			return writeTrackers(a.stdout, format, trackers, batteryOnly)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or csv")
	cmd.Flags().BoolVar(&batteryOnly, "battery-only", false, "show only id and battery columns")
	return cmd
}

func (a *App) trackerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tracker <id>",
		Short: "Show hardware details of one tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			t, err := a.client.Tracker(cmd.Context(), id)
			if err != nil {
				return err
			}
			return writeJSON(a.stdout, t)
		},
	}
}

func (a *App) latestCommand() *cobra.Command {
	var (
		format  string
		address bool
	)
	cmd := &cobra.Command{
		Use:   "latest <id>",
		Short: "Show the most recent position of a tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			pos, found, err := a.client.LatestPosition(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintf(a.stderr, "No recent position for tracker %s\n", id)
			} else if address {
				a.enricher.AnnotatePosition(cmd.Context(), &pos)
			}

			if format == formatCSV {
				var rows []models.Position
				if found {
					rows = []models.Position{pos}
				}
				return writePositions(a.stdout, formatCSV, rows)
			}
			return writeJSON(a.stdout, models.NewLatestReport(id, pos, found))
		},
	}
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or csv")
	cmd.Flags().BoolVar(&address, "address", false, "reverse-geocode the position (needs enrichment)")
	return cmd
}

func (a *App) historyCommand() *cobra.Command {
	var (
		format    string
		maxPoints int
	)
	from := &timeValue{now: a.now}
	to := &timeValue{now: a.now}
	cmd := &cobra.Command{
		Use:   "history <id>",
		Short: "Print the positions reported within a time range",
		Example: `  pawtrack history 7f3a9c --from 2026-05-01T00:00:00Z --to 2026-05-02T00:00:00Z --format csv
  pawtrack history 7f3a9c --from=-6h --max-points 500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if maxPoints < 0 {
				return failure.Invalid("history", errors.New("--max-points must not be negative"))
			}
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			start, end, err := window(from, to, a.now)
			if err != nil {
				return err
			}

			positions, err := a.client.PositionHistory(cmd.Context(), id, start, end)
			if err != nil {
				return err
			}
			kept := trail.Downsample(positions, maxPoints)
			logging.Ctx(cmd.Context()).Debug().
				Int("positions", len(positions)).
				Int("kept", len(kept)).
				Msg("History fetched")
			if len(kept) == 0 {
				fmt.Fprintln(a.stderr, "No position history found")
			}
			return writePositions(a.stdout, format, kept)
		},
	}
	cmd.Flags().Var(from, "from", "range start (default: 24h before --to)")
	cmd.Flags().Var(to, "to", "range end (default: now)")
	cmd.Flags().StringVar(&format, "format", formatJSON, "output format: json or csv")
	cmd.Flags().IntVar(&maxPoints, "max-points", 0, "downsample to at most this many points (0 keeps all)")
	return cmd
}

func (a *App) trailCommand() *cobra.Command {
	var elevation bool
	from := &timeValue{now: a.now}
	to := &timeValue{now: a.now}
	cmd := &cobra.Command{
		Use:   "trail <id>",
		Short: "Summarise distance, duration and speed over a time range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			start, end, err := window(from, to, a.now)
			if err != nil {
				return err
			}

			positions, err := a.client.PositionHistory(cmd.Context(), id, start, end)
			if err != nil {
				return err
			}

			var elevations []float64
			haveElevation := false
			if elevation {
				elevations, haveElevation = a.enricher.Elevations(cmd.Context(), positions)
				if !haveElevation && len(positions) > 0 {
					fmt.Fprintln(a.stderr, "Elevation not available, gain/loss omitted")
				}
			}

			return writeJSON(a.stdout, models.TrailReport{
				TrackerID: id,
				From:      start,
				To:        end,
				Points:    len(positions),
				Elevation: haveElevation,
				Stats:     trail.ComputeStats(positions, elevations),
			})
		},
	}
	cmd.Flags().Var(from, "from", "range start (default: 24h before --to)")
	cmd.Flags().Var(to, "to", "range end (default: now)")
	cmd.Flags().BoolVar(&elevation, "elevation", false, "include elevation gain/loss")
	return cmd
}

func (a *App) geofencesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "geofences <id>",
		Short: "List geofences configured for a tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			fences, err := a.client.Geofences(cmd.Context(), id)
			if err != nil {
				return err
			}
			if fences == nil {
				fences = []models.Geofence{}
			}
			return writeJSON(a.stdout, fences)
		},
	}
}

func (a *App) nearbyCommand() *cobra.Command {
	var (
		radius float64
		types  []string
	)
	cmd := &cobra.Command{
		Use:     "nearby <id>",
		Short:   "List places around the latest position (needs enrichment)",
		Example: `  pawtrack nearby 7f3a9c --radius 300 --types park,veterinary_care`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if radius <= 0 || radius > maxNearbyRadius {
				return failure.Invalid("nearby", fmt.Errorf("--radius must be in (0, %.0f]", maxNearbyRadius))
			}
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			pos, found, err := a.client.LatestPosition(cmd.Context(), id)
			if err != nil {
				return err
			}
			rep := a.enricher.NearbyReport(cmd.Context(), models.NewLatestReport(id, pos, found), radius, types)
			switch {
			case !found:
				fmt.Fprintf(a.stderr, "No recent position for tracker %s\n", id)
			case !rep.Enriched:
				fmt.Fprintln(a.stderr, "Nearby places not available")
			}
			return writeJSON(a.stdout, rep)
		},
	}
	cmd.Flags().Float64Var(&radius, "radius", 500, "search radius in meters")
	cmd.Flags().StringSliceVar(&types, "types", nil, "place types, comma-separated")
	return cmd
}

func (a *App) routeCommand() *cobra.Command {
	var (
		to   string
		mode string
	)
	cmd := &cobra.Command{
		Use:     "route <id>",
		Short:   "Distance and ETA from the latest position to a point (needs enrichment)",
		Example: `  pawtrack route 7f3a9c --to 48.2082,16.3738 --mode walking`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest, err := models.ParseCoordinate(to)
			if err != nil {
				return failure.Invalid("route", err)
			}
			if verr := validation.ValidateStruct(&dest); verr != nil {
				return failure.Invalid("route", verr)
			}
			travel, ok := models.ParseTravelMode(mode)
			if !ok {
				return failure.Invalid("route", fmt.Errorf("--mode %q: want walking, driving or bicycling", mode))
			}
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			pos, found, err := a.client.LatestPosition(cmd.Context(), id)
			if err != nil {
				return err
			}
			rep := a.enricher.RouteReport(cmd.Context(), models.NewLatestReport(id, pos, found), dest, travel)
			switch {
			case !found:
				fmt.Fprintf(a.stderr, "No recent position for tracker %s\n", id)
			case rep.Route == nil:
				fmt.Fprintln(a.stderr, "Route not available")
			}
			return writeJSON(a.stdout, rep)
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination as lat,lng")
	cmd.Flags().StringVar(&mode, "mode", string(models.ModeWalking), "walking, driving or bicycling")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func (a *App) liveCommand() *cobra.Command {
	var on, off bool
	cmd := &cobra.Command{
		Use:   "live <id>",
		Short: "Turn live tracking on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			active := on && !off
			accepted, err := a.client.SetLiveTracking(cmd.Context(), id, active)
			if err != nil {
				return err
			}
			return writeJSON(a.stdout, models.CommandReport{
				TrackerID: id,
				Command:   "live_tracking",
				Accepted:  accepted,
				Active:    &active,
			})
		},
	}
	cmd.Flags().BoolVar(&on, "on", false, "enable live tracking")
	cmd.Flags().BoolVar(&off, "off", false, "disable live tracking")
	cmd.MarkFlagsMutuallyExclusive("on", "off")
	cmd.MarkFlagsOneRequired("on", "off")
	return cmd
}

func (a *App) ledCommand() *cobra.Command {
	return a.triggerCommand("led", "Flash the tracker LED", a.triggerLED)
}

func (a *App) buzzerCommand() *cobra.Command {
	return a.triggerCommand("buzzer", "Sound the tracker buzzer", a.triggerBuzzer)
}

func (a *App) triggerLED(cmd *cobra.Command, id string) (bool, error) {
	return a.client.TriggerLED(cmd.Context(), id)
}

func (a *App) triggerBuzzer(cmd *cobra.Command, id string) (bool, error) {
	return a.client.TriggerBuzzer(cmd.Context(), id)
}

func (a *App) triggerCommand(name, short string, fire func(*cobra.Command, string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := trackerArg(args)
			if err != nil {
				return err
			}
			accepted, err := fire(cmd, id)
			if err != nil {
				return err
			}
			return writeJSON(a.stdout, models.CommandReport{TrackerID: id, Command: name, Accepted: accepted})
		},
	}
}
