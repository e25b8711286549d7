// Package presentation maps Home Assistant climate and water heater state to
// what the thermostat card shows: a display color, an active indicator and
// the embedded temperature control, kept in sync by Controller.
package presentation

import (
	"strings"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

// Color is an opaque color token. The zero value means "no color forced":
// the embedded control falls back to its own default.
type Color string

// NoColor is the absent color.
const NoColor Color = ""

// IsSet reports whether a color was resolved.
func (c Color) IsSet() bool {
	return c != NoColor
}

// String returns the raw token.
func (c Color) String() string {
	return string(c)
}

// ColorFunc is an authoritative color function exposed by the host. It may
// fail; failures fall back to the table-driven computation.
type ColorFunc func(entity.Snapshot) (string, error)

// ColorSources bundles everything ResolveColor reads besides the snapshot.
type ColorSources struct {
	Host  ColorFunc
	Theme theme.Theme
}

// slot maps a mode or action to the theme variable holding its color. An
// empty variable marks a mode that never forces a color.
type slot struct {
	key      string
	variable string
}

// waterHeaterSlots is ordered: for duplicate keys the later entry wins, so
// "manual" resolves to the active color, not the performance color.
var waterHeaterSlots = []slot{
	{key: "eco", variable: theme.WaterHeaterEco},
	{key: "holiday", variable: theme.WaterHeaterElectric},
	{key: "manual", variable: theme.WaterHeaterPerformance},
	{key: "auto", variable: theme.WaterHeaterHeatPump},
	{key: "manual", variable: theme.WaterHeaterActive},
	{key: entity.StateOff, variable: ""},
}

var climateSlots = []slot{
	{key: "heating", variable: theme.ClimateHeating},
	{key: "cooling", variable: theme.ClimateCooling},
	{key: "heat_cool", variable: theme.ClimateAuto},
	{key: "auto", variable: theme.ClimateAuto},
	{key: entity.StateOff, variable: ""},
	{key: "idle", variable: ""},
}

var (
	waterHeaterTable = buildSlotTable(waterHeaterSlots)
	climateTable     = buildSlotTable(climateSlots)
)

func buildSlotTable(slots []slot) map[string]string {
	table := make(map[string]string, len(slots))
	for _, s := range slots {
		table[s.key] = s.variable
	}
	return table
}

// ResolveColor returns the display color for a snapshot. Unavailable and
// unknown entities never get a color. Otherwise the host color function is
// preferred when present and successful; the theme tables are the fallback.
func ResolveColor(snap entity.Snapshot, src ColorSources) Color {
	if snap.IsUnavailable() {
		return NoColor
	}
	if src.Host != nil {
		if c, ok := callHostColor(src.Host, snap); ok {
			return c
		}
	}
	return tableColor(snap, src.Theme)
}

func tableColor(snap entity.Snapshot, th theme.Theme) Color {
	switch snap.Domain() {
	case entity.DomainWaterHeater:
		return waterHeaterColor(snap, th)
	case entity.DomainClimate:
		return climateColor(snap, th)
	default:
		return NoColor
	}
}

// WaterHeaterOperation returns the lower-cased operation mode, falling back to
// the entity state when the operation attribute is missing.
func WaterHeaterOperation(snap entity.Snapshot) string {
	op := snap.StringAttr(entity.AttrOperation)
	if op == "" {
		op = snap.State
	}
	return strings.ToLower(op)
}

func waterHeaterColor(snap entity.Snapshot, th theme.Theme) Color {
	op := WaterHeaterOperation(snap)
	if variable := waterHeaterTable[op]; variable != "" {
		if v := th.Lookup(variable); v != "" {
			return Color(v)
		}
	}
	if op == entity.StateOff {
		return NoColor
	}
	return Color(th.Lookup(theme.PrimaryColor))
}

// ClimateEffectiveState returns the hvac action when it carries information
// (present and not idle), else the hvac mode.
func ClimateEffectiveState(snap entity.Snapshot) string {
	if action := snap.StringAttr(entity.AttrHVACAction); action != "" && action != "idle" {
		return action
	}
	return snap.State
}

func climateColor(snap entity.Snapshot, th theme.Theme) Color {
	effective := ClimateEffectiveState(snap)
	if variable := climateTable[effective]; variable != "" {
		if v := th.Lookup(variable); v != "" {
			return Color(v)
		}
	}
	if effective == entity.StateOff || effective == "idle" {
		return NoColor
	}
	return Color(th.Lookup(theme.PrimaryColor))
}

// callHostColor invokes the host function, treating errors and panics alike.
func callHostColor(fn ColorFunc, snap entity.Snapshot) (c Color, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c, ok = NoColor, false
		}
	}()
	token, err := fn(snap)
	if err != nil {
		return NoColor, false
	}
	return Color(strings.TrimSpace(token)), true
}

// AccentColor is the color used for the active indicator: the performance
// mode color, falling back through the active, orange and primary colors.
func AccentColor(th theme.Theme) Color {
	return Color(th.FirstOf(
		theme.WaterHeaterPerformance,
		theme.WaterHeaterActive,
		theme.OrangeColor,
		theme.PrimaryColor,
	))
}
