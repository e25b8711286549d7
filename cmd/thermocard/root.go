package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	logFile    string
	logLevel   string
	lang       string
	stateCache string
	noCache    bool
	simulate   bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "thermocard",
		Short:         "thermocard shows a Home Assistant thermostat or water heater card in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCard(cmd, flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "thermocard.yaml", "Path to the configuration file")
	cmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "Append logs to this file (overrides log.file)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides log.level)")
	cmd.PersistentFlags().StringVar(&flags.lang, "lang", "", "Display language as a BCP 47 tag (defaults to $LANG)")
	cmd.PersistentFlags().StringVar(&flags.stateCache, "state-cache", "", "Where to keep the last known states (defaults to the user cache directory)")
	cmd.PersistentFlags().BoolVar(&flags.noCache, "no-state-cache", false, "Do not read or write the last known states")
	cmd.PersistentFlags().BoolVar(&flags.simulate, "simulate", false, "Use the built-in simulated host instead of Home Assistant")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newStubCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
