package main

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/require"
)

func stubBuild(t *testing.T, v, c, d string, info *debug.BuildInfo) {
	t.Helper()
	originalVersion, originalCommit, originalDate, originalInfo := version, commit, date, buildInfo
	t.Cleanup(func() {
		version, commit, date, buildInfo = originalVersion, originalCommit, originalDate, originalInfo
	})
	version, commit, date = v, c, d
	buildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }
}

func TestVersionCommandOutputsBuildInfo(t *testing.T) {
	stubBuild(t, "1.2.3", "abcdef1", "2026-10-03", nil)

	output, _, err := execute(t, "version")
	require.NoError(t, err)

	require.Contains(t, output, "thermocard 1.2.3")
	require.Contains(t, output, "abcdef1")
	require.Contains(t, output, "2026-10-03")
	require.Contains(t, output, "go: "+runtime.Version())
}

func TestVersionCommandShort(t *testing.T) {
	stubBuild(t, "1.2.3", "abcdef1", "2026-10-03", nil)

	output, _, err := execute(t, "version", "--short")
	require.NoError(t, err)
	require.Equal(t, "1.2.3\n", output)
}

func TestVersionFallsBackToModuleBuildInfo(t *testing.T) {
	stubBuild(t, "dev", "none", "unknown", &debug.BuildInfo{
		Main: debug.Module{Version: "v0.4.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.time", Value: "2026-09-30T12:00:00Z"},
		},
	})

	b := currentBuild()
	require.Equal(t, "v0.4.0", b.Version)
	require.Equal(t, "0123456", b.Commit)
	require.Equal(t, "2026-09-30T12:00:00Z", b.Date)
}

func TestVersionKeepsLinkerValues(t *testing.T) {
	stubBuild(t, "1.2.3", "abcdef1", "2026-10-03", &debug.BuildInfo{
		Main:     debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	})

	b := currentBuild()
	require.Equal(t, "1.2.3", b.Version)
	require.Equal(t, "abcdef1", b.Commit)
}
