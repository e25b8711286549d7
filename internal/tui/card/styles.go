package card

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

const flameGlyph = "♨"

var (
	// Colors
	mutedColor   = lipgloss.Color("245") // Gray
	errorColor   = lipgloss.Color("196") // Red
	warningColor = lipgloss.Color("226") // Yellow
	successColor = lipgloss.Color("42")  // Green

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	cardStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(warningColor).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(warningColor).
				Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			MarginTop(1)

	moreInfoStyle = lipgloss.NewStyle().
			Underline(true)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Bold(true)

	connectedStyle = lipgloss.NewStyle().
			Foreground(successColor)

	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Width(10)
)

// fragmentStyles are the styles derived from a fragment's style variables.
type fragmentStyles struct {
	card      lipgloss.Style
	title     lipgloss.Style
	active    lipgloss.Style
	inactive  lipgloss.Style
	secondary lipgloss.Style
}

// stylesFor applies the fragment's theme variables on top of the base styles.
// Variables holding values lipgloss cannot render are ignored.
func stylesFor(frag presentation.Fragment) fragmentStyles {
	s := fragmentStyles{
		card:      cardStyle,
		title:     titleStyle,
		active:    lipgloss.NewStyle().Bold(true),
		inactive:  lipgloss.NewStyle().Faint(true),
		secondary: mutedStyle,
	}
	if c, ok := terminalColor(frag.StyleVar(theme.StateColor)); ok {
		s.card = s.card.BorderForeground(c)
	}
	if c, ok := terminalColor(frag.StyleVar(theme.HeatingActive)); ok {
		s.active = s.active.Foreground(c)
	}
	if c, ok := terminalColor(frag.StyleVar(theme.DisabledColor)); ok {
		s.inactive = s.inactive.Foreground(c)
	}
	if c, ok := terminalColor(frag.StyleVar(theme.PrimaryText)); ok {
		s.title = s.title.Foreground(c)
	}
	if c, ok := terminalColor(frag.StyleVar(theme.SecondaryText)); ok {
		s.secondary = s.secondary.Foreground(c)
	}
	if c, ok := terminalColor(frag.StyleVar("--card-background-color")); ok {
		s.card = s.card.Background(c)
	}
	return s
}
