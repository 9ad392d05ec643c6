// Pawtrack - Pet Tracker Telemetry and Trail Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawtrack

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tomtom215/pawtrack/internal/config"
	"github.com/tomtom215/pawtrack/internal/enrich"
	"github.com/tomtom215/pawtrack/internal/failure"
	"github.com/tomtom215/pawtrack/internal/logging"
	"github.com/tomtom215/pawtrack/internal/tractive"
)

// ClientFactory builds the tracking client once configuration is final.
type ClientFactory func(cfg *config.Config) tractive.TrackingClient

// EnricherFactory builds the enrichment service.
type EnricherFactory func(cfg config.EnrichmentConfig) *enrich.Service

// App holds the state shared by every command of one invocation.
type App struct {
	stdout io.Writer
	stderr io.Writer

	newClient   ClientFactory
	newEnricher EnricherFactory
	loadDotenv  bool
	now         func() time.Time

	configPath string
	baseURL    string
	debug      bool

	cfg      *config.Config
	client   tractive.TrackingClient
	enricher *enrich.Service
}

// AppOption configures an App.
type AppOption func(*App)

// WithClientFactory replaces tractive.NewClientFromConfig.
func WithClientFactory(f ClientFactory) AppOption {
	return func(a *App) { a.newClient = f }
}

// WithEnricherFactory replaces enrich.NewServiceFromConfig.
func WithEnricherFactory(f EnricherFactory) AppOption {
	return func(a *App) { a.newEnricher = f }
}

// WithConfig skips file and environment loading and starts from cfg.
// Flags are still applied on top.
func WithConfig(cfg *config.Config) AppOption {
	return func(a *App) { a.cfg = cfg }
}

// WithoutDotenv disables reading .env from the working directory.
func WithoutDotenv() AppOption {
	return func(a *App) { a.loadDotenv = false }
}

// WithClock overrides time.Now for default history windows.
func WithClock(now func() time.Time) AppOption {
	return func(a *App) { a.now = now }
}

// NewApp creates an App writing results to stdout and diagnostics to stderr.
func NewApp(stdout, stderr io.Writer, opts ...AppOption) *App {
	a := &App{
		stdout: stdout,
		stderr: stderr,
		newClient: func(cfg *config.Config) tractive.TrackingClient {
			return tractive.NewClientFromConfig(cfg)
		},
		newEnricher: enrich.NewServiceFromConfig,
		loadDotenv:  true,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "pawtrack",
		Short: "Query and control Tractive pet trackers",
		Long: `pawtrack talks to the Tractive API on behalf of one account.

Credentials come from TRACTIVE_EMAIL and TRACTIVE_PASSWORD (a .env file in
the working directory is read too), or from the config file.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: pawtrack.yaml, config.yaml, /etc/pawtrack/config.yaml)")
	flags.StringVar(&a.baseURL, "base-url", "", "override the Tractive API base URL")
	flags.BoolVar(&a.debug, "debug", false, "debug logging and redacted upstream bodies in errors")

	root.AddCommand(
		a.loginTestCommand(),
		a.trackersCommand(),
		a.trackerCommand(),
		a.latestCommand(),
		a.historyCommand(),
		a.trailCommand(),
		a.geofencesCommand(),
		a.nearbyCommand(),
		a.routeCommand(),
		a.liveCommand(),
		a.ledCommand(),
		a.buzzerCommand(),
	)
	return root
}

// setup resolves configuration and builds the clients. It runs before
// every subcommand.
func (a *App) setup(cmd *cobra.Command, _ []string) error {
	if a.loadDotenv {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
	}

	cfg := a.cfg
	if cfg == nil {
		loaded, err := config.LoadUnvalidated(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.baseURL != "" {
		cfg.Tractive.BaseURL = a.baseURL
	}
	if a.debug {
		cfg.Logging.Debug = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    a.stderr,
	})

	a.cfg = cfg
	a.client = a.newClient(cfg)
	a.enricher = a.newEnricher(cfg.Enrichment)
	logging.Debug().Str("base_url", cfg.Tractive.BaseURL).Str("command", cmd.Name()).Msg("CLI configured")
	return nil
}

// Execute runs the CLI with args and returns the process exit code. A
// canceled ctx (SIGINT) exits 130 whatever the command returned.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.RootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if ctx.Err() != nil {
		fmt.Fprintln(a.stderr, "interrupted")
		return failure.ExitInterrupt
	}
	if err != nil {
		fmt.Fprintln(a.stderr, "Error:", err)
		return failure.ExitCode(err)
	}
	return failure.ExitOK
}
