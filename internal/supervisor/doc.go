// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

/*
Package supervisor runs the long-lived parts of the pawtrack server under a
suture v4 tree.

	SupervisorTree ("pawtrack")
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A service that returns an error is restarted with suture's failure decay and
backoff. Supervisor events (start, stop, panic, backoff) are logged through
sutureslog into the zerolog pipeline:

	logger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	unstopped, err := tree.Run(ctx)

Cancelling the context shuts down the HTTP server gracefully. Run returns
once the root has stopped; services that did not stop within
ShutdownTimeout come back in unstopped.
*/
package supervisor
