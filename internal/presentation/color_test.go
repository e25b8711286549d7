package presentation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

func snap(id, state string, attrs map[string]any) entity.Snapshot {
	return entity.Snapshot{EntityID: id, State: state, Attributes: attrs}
}

func TestResolveColorWaterHeater(t *testing.T) {
	th := theme.Default()

	tests := []struct {
		name  string
		state string
		attrs map[string]any
		want  Color
	}{
		{name: "eco", state: "eco", want: "#8bc34a"},
		{name: "holiday uses electric slot", state: "holiday", want: "#ffc107"},
		{name: "manual resolves to active slot", state: "manual", want: "#ff9800"},
		{name: "auto uses heat pump slot", state: "auto", want: "#ff9800"},
		{name: "off has no color", state: "off", want: NoColor},
		{name: "operation attribute wins over state", state: "on", attrs: map[string]any{"operation": "Eco"}, want: "#8bc34a"},
		{name: "operation off", state: "eco", attrs: map[string]any{"operation": "OFF"}, want: NoColor},
		{name: "unmapped mode falls back to primary", state: "boost", want: "#03a9f4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColor(snap("water_heater.boiler", tt.state, tt.attrs), ColorSources{Theme: th})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColorManualFollowsLastTableEntry(t *testing.T) {
	th := theme.New("custom", map[string]string{
		theme.WaterHeaterPerformance: "performance",
		theme.WaterHeaterActive:      "active",
		theme.PrimaryColor:           "primary",
	})

	got := ResolveColor(snap("water_heater.boiler", "manual", nil), ColorSources{Theme: th})
	assert.Equal(t, Color("active"), got)
}

func TestResolveColorEmptyVariableFallsBackToPrimary(t *testing.T) {
	th := theme.New("sparse", map[string]string{
		theme.PrimaryColor: "#123456",
	})

	assert.Equal(t, Color("#123456"), ResolveColor(snap("water_heater.boiler", "eco", nil), ColorSources{Theme: th}))
	assert.Equal(t, Color("#123456"), ResolveColor(snap("climate.hall", "heat", map[string]any{"hvac_action": "heating"}), ColorSources{Theme: th}))
}

func TestResolveColorEmptyThemeIsAbsent(t *testing.T) {
	got := ResolveColor(snap("water_heater.boiler", "eco", nil), ColorSources{})
	assert.Equal(t, NoColor, got)
	assert.False(t, got.IsSet())
}

func TestResolveColorClimate(t *testing.T) {
	th := theme.Default()

	tests := []struct {
		name  string
		state string
		attrs map[string]any
		want  Color
	}{
		{name: "heating action regardless of mode", state: "cool", attrs: map[string]any{"hvac_action": "heating"}, want: "#ff6f22"},
		{name: "cooling action", state: "heat", attrs: map[string]any{"hvac_action": "cooling"}, want: "#2196f3"},
		{name: "idle action uses mode", state: "heat_cool", attrs: map[string]any{"hvac_action": "idle"}, want: "#4caf50"},
		{name: "auto mode", state: "auto", want: "#4caf50"},
		{name: "idle action with off mode", state: "off", attrs: map[string]any{"hvac_action": "idle"}, want: NoColor},
		{name: "off", state: "off", want: NoColor},
		{name: "unmapped mode falls back to primary", state: "heat", want: "#03a9f4"},
		{name: "drying action falls back to primary", state: "dry", attrs: map[string]any{"hvac_action": "drying"}, want: "#03a9f4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveColor(snap("climate.living_room", tt.state, tt.attrs), ColorSources{Theme: th})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColorUnavailableIgnoresEverySource(t *testing.T) {
	called := false
	src := ColorSources{
		Theme: theme.Default(),
		Host: func(entity.Snapshot) (string, error) {
			called = true
			return "#000000", nil
		},
	}

	for _, state := range []string{entity.StateUnavailable, entity.StateUnknown} {
		assert.Equal(t, NoColor, ResolveColor(snap("climate.hall", state, map[string]any{"hvac_action": "heating"}), src))
		assert.Equal(t, NoColor, ResolveColor(snap("water_heater.boiler", state, nil), src))
	}
	assert.False(t, called)
}

func TestResolveColorHostFunction(t *testing.T) {
	th := theme.Default()
	s := snap("climate.hall", "heat", map[string]any{"hvac_action": "heating"})

	t.Run("success wins", func(t *testing.T) {
		got := ResolveColor(s, ColorSources{Theme: th, Host: func(entity.Snapshot) (string, error) {
			return " rgb(1, 2, 3) ", nil
		}})
		assert.Equal(t, Color("rgb(1, 2, 3)"), got)
	})

	t.Run("error falls back to table", func(t *testing.T) {
		got := ResolveColor(s, ColorSources{Theme: th, Host: func(entity.Snapshot) (string, error) {
			return "", errors.New("not supported")
		}})
		assert.Equal(t, Color("#ff6f22"), got)
	})

	t.Run("panic falls back to table", func(t *testing.T) {
		got := ResolveColor(s, ColorSources{Theme: th, Host: func(entity.Snapshot) (string, error) {
			panic("host exploded")
		}})
		assert.Equal(t, Color("#ff6f22"), got)
	})
}

func TestResolveColorIsIdempotent(t *testing.T) {
	src := ColorSources{Theme: theme.Default()}
	s := snap("water_heater.boiler", "manual", map[string]any{"heating": true})

	first := ResolveColor(s, src)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ResolveColor(s, src))
	}
}

func TestWaterHeaterOperation(t *testing.T) {
	assert.Equal(t, "eco", WaterHeaterOperation(snap("water_heater.b", "ECO", nil)))
	assert.Equal(t, "manual", WaterHeaterOperation(snap("water_heater.b", "eco", map[string]any{"operation": "Manual"})))
}

func TestClimateEffectiveState(t *testing.T) {
	assert.Equal(t, "heating", ClimateEffectiveState(snap("climate.a", "heat", map[string]any{"hvac_action": "heating"})))
	assert.Equal(t, "heat", ClimateEffectiveState(snap("climate.a", "heat", map[string]any{"hvac_action": "idle"})))
	assert.Equal(t, "off", ClimateEffectiveState(snap("climate.a", "off", nil)))
}

func TestAccentColor(t *testing.T) {
	assert.Equal(t, Color("#f44336"), AccentColor(theme.Default()))
	assert.Equal(t, Color("#ff9800"), AccentColor(theme.New("t", map[string]string{theme.OrangeColor: "#ff9800"})))
	assert.Equal(t, Color("blue"), AccentColor(theme.New("t", map[string]string{theme.PrimaryColor: "blue"})))
	assert.Equal(t, NoColor, AccentColor(theme.Theme{}))
}
