package components

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetailsView(t *testing.T) {
	t.Parallel()

	d := NewDetails(DetailsData{
		EntityID:    "water_heater.boiler",
		State:       "Eco",
		LastChanged: "12:00:00",
		Attributes: map[string]any{
			"heating":             true,
			"current_temperature": 48.5,
			"min_temp":            20.0,
			"friendly_name":       "Boiler",
			"modes":               []any{"Eco", "Manual"},
			"holiday_end":         nil,
		},
	})

	require.Equal(t, []string{"current_temperature", "friendly_name", "heating", "holiday_end", "min_temp", "modes"}, d.Keys())

	view := d.View()
	lines := strings.Split(view, "\n")
	require.Equal(t, "water_heater.boiler", lines[0])
	require.Contains(t, lines[1], "Eco")
	require.Contains(t, view, "48.5")
	require.Contains(t, view, "✓")
	require.Contains(t, view, "Eco, Manual")
	require.Contains(t, view, "null")
	require.Contains(t, view, "20")
	require.NotContains(t, view, "20.0")
}

func TestDetailsWithoutAttributes(t *testing.T) {
	t.Parallel()

	view := NewDetails(DetailsData{EntityID: "climate.x", State: "off"}).View()
	require.Equal(t, 2, len(strings.Split(view, "\n")))
}
