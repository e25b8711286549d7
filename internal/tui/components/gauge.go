// Package components holds small lipgloss/bubbles building blocks shared by
// the card views.
package components

import (
	"fmt"
	"math"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultGaugeWidth = 30
	minGaugeWidth     = 8
)

// Gauge renders a temperature against its allowed range.
type Gauge struct {
	bar progress.Model
	min float64
	max float64
}

// NewGauge creates a gauge for the range [min, max]. An empty color keeps the
// default gradient.
func NewGauge(min, max float64, color string, width int) Gauge {
	opts := []progress.Option{progress.WithoutPercentage()}
	if color != "" {
		opts = append(opts, progress.WithSolidFill(color))
	} else {
		opts = append(opts, progress.WithDefaultGradient())
	}
	bar := progress.New(opts...)
	switch {
	case width <= 0:
		bar.Width = defaultGaugeWidth
	case width < minGaugeWidth:
		bar.Width = minGaugeWidth
	default:
		bar.Width = width
	}
	if max < min {
		min, max = max, min
	}
	return Gauge{bar: bar, min: min, max: max}
}

// Width returns the bar width in cells.
func (g Gauge) Width() int {
	return g.bar.Width
}

// Ratio places current within the range, clamped to [0, 1].
func (g Gauge) Ratio(current float64) float64 {
	span := g.max - g.min
	if span <= 0 || math.IsNaN(current) {
		return 0
	}
	return math.Max(0, math.Min(1, (current-g.min)/span))
}

// View renders the bar followed by the current value.
func (g Gauge) View(current float64) string {
	label := lipgloss.NewStyle().Bold(true).Render(FormatTemperature(current))
	return lipgloss.JoinHorizontal(lipgloss.Left, g.bar.ViewAs(g.Ratio(current)), " ", label)
}

// FormatTemperature renders a temperature with one decimal when needed.
func FormatTemperature(v float64) string {
	if math.IsNaN(v) {
		return "--°"
	}
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f°", v)
	}
	return fmt.Sprintf("%.1f°", v)
}
