// Package theme models the host's theme variable set: a flat mapping from
// CSS-style variable names ("--primary-color") to color tokens. Values may
// reference other variables with var(--name[, fallback]); Lookup resolves
// those references so callers only ever see concrete tokens.
package theme

import (
	"sort"
	"strings"
)

const maxReferenceDepth = 8

// Variable names used by the card.
const (
	PrimaryColor  = "--primary-color"
	OrangeColor   = "--orange-color"
	DisabledColor = "--disabled-color"
	SecondaryText = "--secondary-text-color"
	PrimaryText   = "--primary-text-color"
	StateColor    = "--state-color"
	HeatingActive = "--heating-active-color"

	WaterHeaterEco         = "--state-water-heater-eco-color"
	WaterHeaterElectric    = "--state-water-heater-electric-color"
	WaterHeaterPerformance = "--state-water-heater-performance-color"
	WaterHeaterHeatPump    = "--state-water-heater-heat-pump-color"
	WaterHeaterActive      = "--state-water-heater-active-color"

	ClimateHeating = "--state-climate-heating-color"
	ClimateCooling = "--state-climate-cooling-color"
	ClimateAuto    = "--state-climate-auto-color"
)

// Theme is an immutable set of theme variables.
type Theme struct {
	name string
	vars map[string]string
}

// New builds a theme from raw variables. Keys are normalised to carry the
// leading "--" so both Home Assistant style ("primary-color") and CSS style
// names are accepted. Empty keys are dropped.
func New(name string, vars map[string]string) Theme {
	normalized := make(map[string]string, len(vars))
	for k, v := range vars {
		key := normalizeKey(k)
		if key == "" {
			continue
		}
		normalized[key] = strings.TrimSpace(v)
	}
	return Theme{name: name, vars: normalized}
}

// FromAny converts a decoded JSON/YAML theme object into a Theme, ignoring
// values that are not strings (for example nested "modes" blocks).
func FromAny(name string, raw map[string]any) Theme {
	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			vars[k] = s
		}
	}
	return New(name, vars)
}

// Name returns the theme name; the empty string for anonymous themes.
func (t Theme) Name() string {
	return t.name
}

// Raw returns the unresolved value of a variable.
func (t Theme) Raw(name string) (string, bool) {
	if t.vars == nil {
		return "", false
	}
	v, ok := t.vars[normalizeKey(name)]
	return v, ok
}

// Lookup returns the resolved, trimmed value of a variable. Absent variables,
// empty values and unresolvable references all yield "".
func (t Theme) Lookup(name string) string {
	return t.resolve(normalizeKey(name), 0)
}

// Names lists the theme's variable names in sorted order.
func (t Theme) Names() []string {
	names := make([]string, 0, len(t.vars))
	for k := range t.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of variables.
func (t Theme) Len() int {
	return len(t.vars)
}

// Overlay returns a new theme where the variables of top replace those of t.
// The result keeps top's name when it has one.
func (t Theme) Overlay(top Theme) Theme {
	merged := make(map[string]string, len(t.vars)+len(top.vars))
	for k, v := range t.vars {
		merged[k] = v
	}
	for k, v := range top.vars {
		merged[k] = v
	}
	name := t.name
	if top.name != "" {
		name = top.name
	}
	return Theme{name: name, vars: merged}
}

// FirstOf returns the first non-empty resolved value among names.
func (t Theme) FirstOf(names ...string) string {
	for _, n := range names {
		if v := t.Lookup(n); v != "" {
			return v
		}
	}
	return ""
}

func (t Theme) resolve(key string, depth int) string {
	if depth > maxReferenceDepth || t.vars == nil {
		return ""
	}
	value, ok := t.vars[key]
	if !ok {
		return ""
	}
	return t.expand(value, depth)
}

// expand resolves a value that is either a literal or a var() reference.
func (t Theme) expand(value string, depth int) string {
	value = strings.TrimSpace(value)
	ref, fallback, isRef := parseVar(value)
	if !isRef {
		return value
	}
	if resolved := t.resolve(normalizeKey(ref), depth+1); resolved != "" {
		return resolved
	}
	if fallback == "" {
		return ""
	}
	return t.expand(fallback, depth+1)
}

// parseVar splits "var(--name, fallback)" into its parts.
func parseVar(value string) (string, string, bool) {
	if !strings.HasPrefix(value, "var(") || !strings.HasSuffix(value, ")") {
		return "", "", false
	}
	inner := strings.TrimSpace(value[len("var(") : len(value)-1])
	ref, fallback, _ := strings.Cut(inner, ",")
	return strings.TrimSpace(ref), strings.TrimSpace(fallback), true
}

func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || key == "--" {
		return ""
	}
	if !strings.HasPrefix(key, "--") {
		key = "--" + key
	}
	return key
}
