package card

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/thermocard/internal/hass"
	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
)

// ViewMode determines which screen to render
type ViewMode int

const (
	ViewCard ViewMode = iota
	ViewDetail
	ViewHelp
)

// HostMsg carries a new host state set.
type HostMsg struct {
	Host *presentation.Host
}

// StatusMsg carries a connection status change.
type StatusMsg struct {
	Status hass.Status
}

// SourceDoneMsg reports that the host source stopped.
type SourceDoneMsg struct {
	Err error
}

// correctionMsg runs the controller's deferred work after a render.
type correctionMsg struct{}

// Forward converts store updates into program messages. Pass the program's
// Send method.
func Forward(send func(tea.Msg)) func(hass.Update) {
	return func(u hass.Update) {
		if u.Host != nil {
			send(HostMsg{Host: u.Host})
		}
		if u.Status != nil {
			send(StatusMsg{Status: *u.Status})
		}
	}
}
