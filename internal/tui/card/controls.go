package card

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/i18n"
	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
	"github.com/alexisbeaulieu97/thermocard/internal/tui/components"
)

// compactRows is the height below which a control collapses to one line.
const compactRows = 3

// Viewer is implemented by controls that can draw themselves.
type Viewer interface {
	View(width int) string
}

// NewControlFactory builds the terminal controls for both domains.
func NewControlFactory(localizer *i18n.Localizer) presentation.ControlFactory {
	if localizer == nil {
		localizer = i18n.New("")
	}
	return func(domain entity.Domain) presentation.Control {
		switch domain {
		case entity.DomainClimate, entity.DomainWaterHeater:
			return &temperatureControl{domain: domain, localizer: localizer}
		default:
			return nil
		}
	}
}

// temperatureControl draws current and target temperature with a gauge, plus
// the mode line of its domain.
type temperatureControl struct {
	domain        entity.Domain
	localizer     *i18n.Localizer
	host          *presentation.Host
	snap          entity.Snapshot
	color         presentation.Color
	maxRows       int
	preventScroll bool
	closed        bool
	refreshes     int
}

var _ presentation.Control = (*temperatureControl)(nil)

func (c *temperatureControl) Domain() entity.Domain { return c.domain }
func (c *temperatureControl) SetHost(h *presentation.Host) { c.host = h }
func (c *temperatureControl) SetSnapshot(s entity.Snapshot) { c.snap = s }
func (c *temperatureControl) Snapshot() entity.Snapshot { return c.snap }
func (c *temperatureControl) SetColor(col presentation.Color) { c.color = col }
func (c *temperatureControl) SetMaxSize(rows int) { c.maxRows = rows }
func (c *temperatureControl) SetPreventScrollInteraction(p bool) { c.preventScroll = p }
func (c *temperatureControl) Refresh() { c.refreshes++ }
func (c *temperatureControl) Close() { c.closed = true }

// ScrollLocked reports whether wheel events should pass through the control.
func (c *temperatureControl) ScrollLocked() bool {
	return c.preventScroll
}

// View implements Viewer.
func (c *temperatureControl) View(width int) string {
	if c.closed {
		return ""
	}
	if c.snap.IsUnavailable() {
		return mutedStyle.Render(c.localizer.ModeTitle(c.snap.State))
	}

	current := c.number(entity.AttrCurrentTemperature)
	target := c.number(entity.AttrTemperature)
	mode := c.modeLine()

	if c.maxRows > 0 && c.maxRows < compactRows {
		return fmt.Sprintf("%s → %s  %s",
			components.FormatTemperature(current),
			components.FormatTemperature(target),
			mode)
	}

	minT, maxT := c.bounds()
	gauge := components.NewGauge(minT, maxT, colorToken(c.color), width-8)

	lines := []string{
		gauge.View(current),
		fmt.Sprintf("%s %s  %s %s",
			c.label(i18n.KeyCurrently, "Currently"), components.FormatTemperature(current),
			c.label(i18n.KeyTarget, "Target"), components.FormatTemperature(target)),
		mode,
	}
	return strings.Join(lines, "\n")
}

func (c *temperatureControl) modeLine() string {
	switch c.domain {
	case entity.DomainWaterHeater:
		op := presentation.WaterHeaterOperation(c.snap)
		return c.label(i18n.KeyMode, "Mode") + ": " + c.localizer.ModeTitle(op)
	default:
		line := c.localizer.ModeTitle(c.snap.State)
		if action := c.snap.StringAttr(entity.AttrHVACAction); action != "" {
			line += " · " + c.localizer.ModeTitle(action)
		}
		return line
	}
}

// bounds returns the entity's temperature range, or the Home Assistant
// defaults for its domain.
func (c *temperatureControl) bounds() (float64, float64) {
	minT, maxT := 7.0, 35.0
	if c.domain == entity.DomainWaterHeater {
		minT, maxT = 20.0, 75.0
	}
	if v, ok := c.snap.FloatAttr(entity.AttrMinTemp); ok {
		minT = v
	}
	if v, ok := c.snap.FloatAttr(entity.AttrMaxTemp); ok {
		maxT = v
	}
	return minT, maxT
}

// number reads a numeric attribute; missing values are NaN and render as "--".
func (c *temperatureControl) number(key string) float64 {
	if v, ok := c.snap.FloatAttr(key); ok {
		return v
	}
	return math.NaN()
}

func (c *temperatureControl) label(key, fallback string) string {
	if c.host != nil && c.host.Localize != nil {
		if v := c.host.Localize(key); v != "" {
			return v
		}
	}
	return fallback
}

// colorToken keeps tokens lipgloss can render: hex colors and ANSI indexes.
func colorToken(c presentation.Color) string {
	token := strings.TrimSpace(c.String())
	if token == "" {
		return ""
	}
	if strings.HasPrefix(token, "#") {
		return token
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return token
}

// terminalColor converts a color token to a lipgloss color.
func terminalColor(token string) (lipgloss.TerminalColor, bool) {
	if t := colorToken(presentation.Color(token)); t != "" {
		return lipgloss.Color(t), true
	}
	return nil, false
}
