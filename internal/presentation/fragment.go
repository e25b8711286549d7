package presentation

import (
	"fmt"
	"sort"
)

const (
	moreInfoKey      = "ui.card.thermostat.more_info"
	moreInfoFallback = "More info"
)

// Fragment is the card's rendered state: what a view draws.
type Fragment struct {
	// Placeholder is set instead of everything else when the entity is missing.
	Placeholder   string
	Title         string
	Indicator     Indicator
	Color         Color
	StyleVars     map[string]string
	MoreInfoLabel string
	Control       Control
}

// NotFound reports whether the fragment shows the missing-entity placeholder.
func (f Fragment) NotFound() bool {
	return f.Placeholder != ""
}

// StyleVar returns a style variable set on the fragment.
func (f Fragment) StyleVar(name string) string {
	if f.StyleVars == nil {
		return ""
	}
	return f.StyleVars[name]
}

// StyleVarNames lists the style variables in sorted order.
func (f Fragment) StyleVarNames() []string {
	names := make([]string, 0, len(f.StyleVars))
	for k := range f.StyleVars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (f Fragment) clone() Fragment {
	out := f
	if f.StyleVars != nil {
		out.StyleVars = make(map[string]string, len(f.StyleVars))
		for k, v := range f.StyleVars {
			out.StyleVars[k] = v
		}
	}
	return out
}

func notFoundText(entityID string) string {
	return fmt.Sprintf("Entity not found: %s", entityID)
}
