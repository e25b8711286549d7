package components

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGaugeRatio(t *testing.T) {
	t.Parallel()

	g := NewGauge(20, 75, "", 0)
	require.Equal(t, 0.0, g.Ratio(10))
	require.Equal(t, 1.0, g.Ratio(90))
	require.InDelta(t, 0.5, g.Ratio(47.5), 1e-9)
	require.Equal(t, 0.0, g.Ratio(math.NaN()))
}

func TestGaugeSwapsInvertedRange(t *testing.T) {
	t.Parallel()

	g := NewGauge(35, 7, "#ff0000", 20)
	require.InDelta(t, 0.5, g.Ratio(21), 1e-9)
}

func TestGaugeDegenerateRange(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0.0, NewGauge(20, 20, "", 0).Ratio(20))
}

func TestGaugeWidth(t *testing.T) {
	t.Parallel()

	require.Equal(t, defaultGaugeWidth, NewGauge(0, 1, "", 0).Width())
	require.Equal(t, minGaugeWidth, NewGauge(0, 1, "", 3).Width())
	require.Equal(t, 40, NewGauge(0, 1, "", 40).Width())
}

func TestGaugeView(t *testing.T) {
	t.Parallel()

	view := NewGauge(7, 35, "#ff6f22", 12).View(21.5)
	require.Contains(t, view, "21.5°")
	require.NotEmpty(t, view)
}

func TestFormatTemperature(t *testing.T) {
	t.Parallel()

	require.Equal(t, "21°", FormatTemperature(21))
	require.Equal(t, "21.5°", FormatTemperature(21.5))
	require.Equal(t, "--°", FormatTemperature(math.NaN()))
}
