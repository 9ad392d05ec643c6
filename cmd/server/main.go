// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tomtom215/pawtrack/internal/api"
	"github.com/tomtom215/pawtrack/internal/config"
	"github.com/tomtom215/pawtrack/internal/enrich"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/supervisor"
	"github.com/tomtom215/pawtrack/internal/supervisor/services"
	"github.com/tomtom215/pawtrack/internal/tractive"
)

const (
	shutdownTimeout = 10 * time.Second
	loginTimeout    = 30 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Ignoring unreadable .env file")
	}

	cfg, err := config.Load("")
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", tractive.Version).
		Str("base_url", cfg.Tractive.BaseURL).
		Bool("breaker", cfg.Breaker.Enabled).
		Bool("enrichment", cfg.Enrichment.Enabled).
		Bool("debug", cfg.Logging.Debug).
		Msg("Starting pawtrack server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := tractive.NewClientFromConfig(cfg)
	enricher := enrich.NewServiceFromConfig(cfg.Enrichment)

	// Surface bad credentials at start-up; the session manager retries on
	// demand either way.
	loginCtx, loginCancel := context.WithTimeout(ctx, loginTimeout)
	if session, err := client.Login(loginCtx); err != nil {
		logging.Warn().Err(err).Msg("Initial login failed, requests will authenticate on demand")
	} else {
		logging.Info().Str("user_id", session.UserID).Time("expires_at", session.ExpiresAt).Msg("Tractive session established")
	}
	loginCancel()

	handler := api.NewHandler(client, enricher,
		api.WithDebug(cfg.Logging.Debug),
		api.WithRequestTimeout(cfg.Server.Timeout),
	)
	middleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(cfg.Server))
	router := api.NewRouter(handler, middleware)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Handlers answer 504 at cfg.Server.Timeout; leave room to write it.
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: shutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		// A second signal gets the default behaviour and kills the process.
		signal.Stop(sigCh)
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	unstopped, err := tree.Run(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Pawtrack server stopped")
}
