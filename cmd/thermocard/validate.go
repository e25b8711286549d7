package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/thermocard/internal/config"
	"github.com/alexisbeaulieu97/thermocard/internal/hass"
)

func newValidateCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Check a configuration file without connecting to the host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, root, args[0])
		},
	}

	return cmd
}

func runValidate(cmd *cobra.Command, flags *rootFlags, path string) error {
	cfg, err := config.ParseConfig(path, flags.overrides()...)
	if err != nil {
		return newCommandError("validate configuration", path, err, suggestionFor(err))
	}

	host := "simulator"
	if !cfg.Simulator.Enabled {
		endpoint, err := hass.Endpoint(cfg.Hass.URL)
		if err != nil {
			return newCommandError("validate configuration", path, err, suggestionFor(err))
		}
		host = endpoint
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s is valid\n", path)
	fmt.Fprintf(out, "  entity: %s (%s)\n", cfg.Card.Entity, cfg.Card.Domain())
	if cfg.Card.Name != "" {
		fmt.Fprintf(out, "  name:   %s\n", cfg.Card.Name)
	}
	if cfg.Card.Theme != "" {
		fmt.Fprintf(out, "  theme:  %s\n", cfg.Card.Theme)
	}
	fmt.Fprintf(out, "  host:   %s\n", host)
	if !cfg.Simulator.Enabled && cfg.Hass.ResolveToken() == "" {
		fmt.Fprintln(out, "  warning: no access token configured")
	}
	return nil
}
