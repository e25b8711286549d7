package card

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
	"github.com/alexisbeaulieu97/thermocard/internal/tui/components"
)

// View renders the current model state
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	switch m.viewMode {
	case ViewDetail:
		return m.renderDetailView()
	case ViewHelp:
		return m.renderHelpView()
	default:
		return m.renderCardView()
	}
}

// renderCardView renders the card and the status footer, scrolled to the
// current offset when they do not fit the terminal.
func (m Model) renderCardView() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	if m.sizeErr != "" {
		return errorBannerStyle.Render(m.sizeErr)
	}
	return m.scrolled(m.cardContent())
}

// scrolled cuts content to the terminal height at the current offset.
func (m Model) scrolled(content string) string {
	lines := strings.Split(content, "\n")
	if m.height <= 0 || len(lines) <= m.height {
		return content
	}
	offset := m.clampOffset(m.offset)
	return strings.Join(lines[offset:offset+m.height], "\n")
}

func (m Model) cardContent() string {
	var content strings.Builder

	frag := m.controller.Fragment()
	if m.controller.Phase() == presentation.PhaseMounted && !frag.NotFound() {
		content.WriteString(fmt.Sprintf("%s Waiting for %s", m.spinner.View(), m.entityID()))
	} else {
		content.WriteString(Render(frag, m.width))
	}
	content.WriteString("\n")

	if m.err != nil {
		content.WriteString(errorBannerStyle.Render("✗ " + m.err.Error()))
		content.WriteString("\n")
	}

	content.WriteString(m.renderFooter())
	return content.String()
}

// Render draws a fragment at the given terminal width. It is what the card
// view shows and what one-shot rendering prints.
func Render(frag presentation.Fragment, width int) string {
	if frag.NotFound() {
		return placeholderStyle.Render(frag.Placeholder)
	}
	if frag.Title == "" && frag.Control == nil {
		return ""
	}

	styles := stylesFor(frag)
	inner := width - chromeCols
	if inner < 10 {
		inner = 10
	}

	glyph := styles.inactive.Render(flameGlyph)
	if frag.Indicator.Active {
		glyph = styles.active.Render(flameGlyph)
	}
	indicator := glyph + " " + styles.secondary.Render(frag.Indicator.Title)
	title := styles.title.Render(frag.Title)

	gap := inner - lipgloss.Width(title) - lipgloss.Width(indicator)
	if gap < 1 {
		gap = 1
	}
	rows := []string{title + strings.Repeat(" ", gap) + indicator}

	if v, ok := frag.Control.(Viewer); ok {
		if body := v.View(inner); body != "" {
			rows = append(rows, body)
		}
	}
	if frag.MoreInfoLabel != "" {
		rows = append(rows, moreInfoStyle.Render(frag.MoreInfoLabel)+mutedStyle.Render(" (i)"))
	}

	return styles.card.Width(inner + 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// renderDetailView renders the more-info panel for the card's entity
func (m Model) renderDetailView() string {
	return m.scrolled(m.detailContent())
}

func (m Model) detailContent() string {
	var content strings.Builder

	content.WriteString(titleStyle.Render(m.controller.Fragment().Title))
	content.WriteString("\n\n")

	snap, ok := m.snapshot()
	if !ok {
		content.WriteString(mutedStyle.Render("No state received for " + m.entityID()))
	} else {
		data := components.DetailsData{
			EntityID:   snap.EntityID,
			State:      snap.State,
			Attributes: snap.Attributes,
		}
		if !snap.LastChanged.IsZero() {
			data.LastChanged = snap.LastChanged.Local().Format(time.DateTime)
		}
		content.WriteString(components.NewDetails(data).View())
	}
	content.WriteString("\n")
	content.WriteString(footerStyle.Render("esc: back • q: quit"))
	return content.String()
}

// renderHelpView renders the key bindings
func (m Model) renderHelpView() string {
	bindings := []struct {
		key  string
		help string
	}{
		{"i, enter", "Open the entity details"},
		{"esc", "Back to the card"},
		{"?", "Toggle this help"},
		{"q, ctrl+c", "Quit"},
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render("Keys"))
	content.WriteString("\n\n")
	for _, b := range bindings {
		content.WriteString(helpKeyStyle.Render(b.key))
		content.WriteString(b.help)
		content.WriteString("\n")
	}
	content.WriteString(footerStyle.Render("Press ? or esc to return"))
	return content.String()
}

// renderFooter renders connection status and key hints
func (m Model) renderFooter() string {
	return footerStyle.Render(m.renderStatus() + "  •  i: details • ?: help • q: quit")
}

func (m Model) renderStatus() string {
	st := m.status
	switch {
	case st.Connected && st.Simulated:
		return connectedStyle.Render("● simulated")
	case st.Connected:
		label := "● connected"
		if st.Version != "" {
			label += " (" + st.Version + ")"
		}
		return connectedStyle.Render(label)
	case st.Retry > 0:
		return fmt.Sprintf("%s reconnecting in %s (attempt %d)", m.spinner.View(), st.Backoff, st.Retry)
	case st.Err != nil:
		return errorBannerStyle.Render("○ " + st.Err.Error())
	case st.Endpoint != "":
		return fmt.Sprintf("%s connecting to %s", m.spinner.View(), st.Endpoint)
	default:
		return m.spinner.View() + " connecting"
	}
}

func (m Model) entityID() string {
	cfg, _ := m.controller.Config()
	return cfg.Entity
}
