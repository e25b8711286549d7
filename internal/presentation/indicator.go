package presentation

import (
	"github.com/alexisbeaulieu97/thermocard/internal/entity"
)

// Icon selects the indicator glyph variant.
type Icon int

const (
	// IconOutlined draws the flame as an outline in the disabled color.
	IconOutlined Icon = iota
	// IconFilled draws the flame filled with the accent color.
	IconFilled
)

// Indicator is the derived heating indicator.
type Indicator struct {
	Active bool
	Icon   Icon
	Title  string
}

const (
	indicatorTitleActive = "Heating Active"
	indicatorTitleOff    = "Heating Off"
)

// ResolveIndicator derives the heating indicator from the heating attribute.
//
// The flag is read tolerantly: only false, "false" and an explicit null mark
// the entity inactive. A snapshot without the attribute at all counts as
// active. That last rule is unusual; it is kept until the intended behaviour
// for entities that never report the flag is confirmed.
func ResolveIndicator(snap entity.Snapshot) Indicator {
	value, present := snap.Attr(entity.AttrHeating)
	if IsHeating(value, present) {
		return Indicator{Active: true, Icon: IconFilled, Title: indicatorTitleActive}
	}
	return Indicator{Active: false, Icon: IconOutlined, Title: indicatorTitleOff}
}

// IsHeating applies the tolerant coercion used by ResolveIndicator.
func IsHeating(value any, present bool) bool {
	if !present {
		return true
	}
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != "false"
	default:
		return true
	}
}
