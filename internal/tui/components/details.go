package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DetailsData is what the more-info panel shows for one entity.
type DetailsData struct {
	EntityID    string
	State       string
	LastChanged string
	Attributes  map[string]any
}

// Details renders an entity's attributes as an aligned key/value list.
type Details struct {
	data     DetailsData
	keyStyle lipgloss.Style
}

// NewDetails creates a Details component.
func NewDetails(data DetailsData) Details {
	return Details{
		data:     data,
		keyStyle: lipgloss.NewStyle().Bold(true),
	}
}

// Keys returns the attribute names in display order.
func (d Details) Keys() []string {
	keys := make([]string, 0, len(d.data.Attributes))
	for k := range d.data.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// View renders the panel body.
func (d Details) View() string {
	width := len("state")
	for _, k := range d.Keys() {
		if len(k) > width {
			width = len(k)
		}
	}
	row := func(key string, value any) string {
		return d.keyStyle.Render(fmt.Sprintf("%-*s", width, key)) + "  " + formatValue(value)
	}

	lines := []string{d.data.EntityID, row("state", d.data.State)}
	if d.data.LastChanged != "" {
		lines = append(lines, row("changed", d.data.LastChanged))
	}
	for _, k := range d.Keys() {
		lines = append(lines, row(k, d.data.Attributes[k]))
	}
	return strings.Join(lines, "\n")
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		if val {
			return "✓"
		}
		return "✗"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
