// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

// Command pawtrack is the command-line client for Tractive pet trackers.
// See internal/cli for commands and exit codes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/pawtrack/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.NewApp(os.Stdout, os.Stderr).Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
