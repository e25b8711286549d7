package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/thermocard/internal/config"
)

type logEntry map[string]any

func TestLoggerInfoWithFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf, Component: "hass"})
	require.NoError(t, err)

	log = log.WithFields(map[string]any{"endpoint": "ws://ha:8123/api/websocket", "attempt": 2})
	log.Info("connected")

	var entry logEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "connected", entry["message"])
	require.Equal(t, "hass", entry["component"])
	require.Equal(t, "ws://ha:8123/api/websocket", entry["endpoint"])
	require.EqualValues(t, 2, entry["attempt"])
	require.Equal(t, "info", entry["level"])
}

func TestLoggerDebugRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "info", Writer: buf})
	require.NoError(t, err)

	log.Debug("this should not appear")
	require.Equal(t, "", strings.TrimSpace(buf.String()))
}

func TestLoggerErrorIncludesContext(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := New(Options{Level: "debug", Writer: buf})
	require.NoError(t, err)

	log = log.With("entity_id", "water_heater.boiler")
	log.Error(errors.New("boom"), "state decode failed")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry logEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "state decode failed", entry["message"])
	require.Equal(t, "water_heater.boiler", entry["entity_id"])
	require.Equal(t, "boom", entry["error"])
}

func TestFromConfigTextIsHumanReadable(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := FromConfig(config.LogConfig{Level: "warn", Format: "text"}, buf, "simulator")
	require.NoError(t, err)

	log.Warn("tick skipped")
	out := buf.String()
	require.Contains(t, out, "tick skipped")
	require.Contains(t, out, "component=simulator")
	require.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New(Options{Level: "loud"})
	require.Error(t, err)
}

func TestNilAndNopLoggersAreSafe(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger
	require.NotPanics(t, func() {
		nilLogger.Info("ignored")
		nilLogger.Error(errors.New("x"), "ignored")
		require.Nil(t, nilLogger.With("k", "v"))
	})

	require.NotPanics(t, func() {
		Nop().WithFields(map[string]any{"k": 1}).Warn("ignored")
	})
}
