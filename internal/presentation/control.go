package presentation

import (
	"github.com/alexisbeaulieu97/thermocard/internal/entity"
)

// Control is an embedded temperature control. The card only constructs it and
// feeds it state; its rendering and input handling are its own business.
type Control interface {
	Domain() entity.Domain
	SetHost(host *Host)
	SetSnapshot(snap entity.Snapshot)
	Snapshot() entity.Snapshot
	SetColor(c Color)
	SetMaxSize(cells int)
	SetPreventScrollInteraction(prevent bool)
	// Refresh re-applies host and snapshot after the fragment has settled.
	Refresh()
	// Close releases the control. The controller never uses a closed control.
	Close()
}

// ControlFactory builds the control variant for a domain.
type ControlFactory func(domain entity.Domain) Control
