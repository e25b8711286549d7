package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set by the release build through -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// buildInfo is swapped in tests.
var buildInfo = debug.ReadBuildInfo

type buildDetails struct {
	Version   string
	Commit    string
	Date      string
	GoVersion string
}

// currentBuild fills in what -ldflags left unset from the module build
// information, which `go install` records.
func currentBuild() buildDetails {
	b := buildDetails{Version: version, Commit: commit, Date: date, GoVersion: runtime.Version()}
	info, ok := buildInfo()
	if !ok {
		return b
	}
	if b.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		b.Version = info.Main.Version
	}
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if b.Commit == "none" && setting.Value != "" {
				b.Commit = setting.Value
				if len(b.Commit) > 7 {
					b.Commit = b.Commit[:7]
				}
			}
		case "vcs.time":
			if b.Date == "unknown" && setting.Value != "" {
				b.Date = setting.Value
			}
		}
	}
	return b
}

func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b := currentBuild()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), b.Version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "thermocard %s\ncommit: %s\nbuilt: %s\ngo: %s\n", b.Version, b.Commit, b.Date, b.GoVersion)
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")

	return cmd
}
