package card

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// The card needs its grid rows plus the footer line.
		minHeight := m.controller.CardSize() + 1
		if m.height < minHeight {
			m.sizeErr = fmt.Sprintf("Terminal too small (%dx%d). Minimum height: %d", m.width, m.height, minHeight)
		} else {
			m.sizeErr = ""
		}
		m.offset = m.clampOffset(m.offset)
		m.observer.notify(m.containerSize())
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case spinner.TickMsg:
		if m.status.Connected {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case HostMsg:
		m.host = msg.Host
		m.controller.Update(m.ctx, msg.Host)
		return m, m.flush()

	case StatusMsg:
		wasConnected := m.status.Connected
		m.status = msg.Status
		if wasConnected && !msg.Status.Connected {
			return m, m.spinner.Tick
		}
		return m, nil

	case SourceDoneMsg:
		m.err = msg.Err
		if msg.Err != nil {
			m.logger.Error(m.ctx, "host source stopped", "error", msg.Err)
		}
		return m, nil

	case correctionMsg:
		m.queue.RunPending()
		return m, m.flush()
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		m.controller.Unmount()
		if m.stop != nil {
			m.stop()
		}
		return m, tea.Quit

	case "i", "enter":
		if m.viewMode == ViewDetail {
			m.viewMode = ViewCard
			m.offset = 0
			return m, nil
		}
		if m.controller.Fragment().NotFound() || m.host == nil {
			return m, nil
		}
		if err := m.controller.RequestMoreInfo(m.ctx); err != nil {
			m.logger.Warn(m.ctx, "more info request failed", "error", err)
		}
		m.viewMode = ViewDetail
		m.offset = 0
		return m, nil

	case "esc":
		m.viewMode = ViewCard
		m.offset = 0
		return m, nil

	case "?":
		if m.viewMode == ViewHelp {
			m.viewMode = ViewCard
		} else {
			m.viewMode = ViewHelp
		}
		return m, nil
	}
	return m, nil
}

// scrollLocker is implemented by controls that let wheel events through to
// the view around them.
type scrollLocker interface {
	ScrollLocked() bool
}

// handleMouse scrolls the card and detail views with the wheel. Over the
// card, a control that does not let wheel events through keeps them.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.viewMode == ViewHelp || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	var delta int
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		delta = -1
	case tea.MouseButtonWheelDown:
		delta = 1
	default:
		return m, nil
	}
	if m.viewMode == ViewCard {
		if locker, ok := m.controller.Control().(scrollLocker); ok && !locker.ScrollLocked() {
			return m, nil
		}
	}
	m.offset = m.clampOffset(m.offset + delta)
	return m, nil
}

// clampOffset keeps a scroll offset within the lines the current view
// overflows the terminal by.
func (m Model) clampOffset(offset int) int {
	content := m.cardContent()
	if m.viewMode == ViewDetail {
		content = m.detailContent()
	}
	overflow := strings.Count(content, "\n") + 1 - m.height
	if offset > overflow {
		offset = overflow
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}
