package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/thermocard/internal/config"
	apperrors "github.com/alexisbeaulieu97/thermocard/pkg/errors"
)

type stubOptions struct {
	url      string
	tokenEnv string
	timeout  time.Duration
}

func newStubCmd(root *rootFlags) *cobra.Command {
	opts := &stubOptions{}

	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Print a starter card configuration for the host's first thermostat or water heater",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStub(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Home Assistant address (http(s) or ws(s))")
	cmd.Flags().StringVar(&opts.tokenEnv, "token-env", "HASS_TOKEN", "Environment variable holding the access token")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "How long to wait for the host's states")

	return cmd
}

func runStub(cmd *cobra.Command, flags *rootFlags, opts *stubOptions) error {
	cfg := &config.Config{
		Hass:      config.HassConfig{URL: strings.TrimSpace(opts.url), TokenEnv: opts.tokenEnv},
		Simulator: config.SimulatorConfig{Enabled: flags.simulate},
		Log:       config.LogConfig{File: flags.logFile, Level: flags.logLevel},
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	cfg.ApplyDefaults()
	if !cfg.Simulator.Enabled && cfg.Hass.URL == "" {
		err := apperrors.NewValidationError("hass.url", "a Home Assistant url is required unless --simulate is set", nil)
		return newCommandError("build a stub configuration", "choosing a host", err, "Pass --url or --simulate.")
	}

	app, err := newAppContextFor(cfg, flags, cmd.ErrOrStderr())
	if err != nil {
		return newCommandError("build a stub configuration", "setting up logging", err, suggestionFor(err))
	}
	defer app.Close()

	ctx, logger := app.CommandContext(cmd, "command.stub")

	source, err := app.Source()
	if err != nil {
		return newCommandError("build a stub configuration", "connecting to the host", err, suggestionFor(err))
	}
	host, err := waitForHost(ctx, source, app.Localizer.Localize, opts.timeout)
	if err != nil {
		return newCommandError("build a stub configuration", "waiting for the host's states", err, suggestionFor(err))
	}

	ids := host.States.IDs()
	sort.Strings(ids)
	stub := config.StubConfig(ids)
	if stub.Entity == "" {
		logger.Warn(ctx, "no climate or water_heater entity found", "entities", len(ids))
	}

	out, err := config.MarshalCard(stub)
	if err != nil {
		return newCommandError("build a stub configuration", "encoding YAML", err, suggestionFor(err))
	}
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return fmt.Errorf("write stub configuration: %w", err)
	}
	return nil
}
