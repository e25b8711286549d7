package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thermocard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func simulatedConfig(t *testing.T, entityID string) string {
	t.Helper()
	return writeConfig(t, `card:
  entity: `+entityID+`
simulator:
  enabled: true
  interval: 1h
log:
  level: error
`)
}

// execute runs the root command and returns stdout and stderr. The state
// cache is kept in a temporary directory.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithCache(t, filepath.Join(t.TempDir(), "states.json"), args...)
}

func executeWithCache(t *testing.T, cachePath string, args ...string) (string, string, error) {
	t.Helper()
	args = append(args, "--state-cache", cachePath)
	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}
