package presentation

import (
	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

// LocalizeFunc looks up a translated string by key. It returns "" when the
// key is unknown.
type LocalizeFunc func(key string) string

// Host is everything the host pushes to the card on each update tick.
type Host struct {
	States    entity.States
	Localize  LocalizeFunc
	ColorFunc ColorFunc
	Themes    theme.Registry
}

// localize is nil-safe.
func (h *Host) localize(key string) string {
	if h == nil || h.Localize == nil {
		return ""
	}
	return h.Localize(key)
}

// Size is an observed container size in terminal cells.
type Size struct {
	Width  int
	Height int
}

// ResizeObserver delivers container size changes. Observe is called once per
// mount; Disconnect stops delivery and is called exactly once on unmount.
type ResizeObserver interface {
	Observe(onResize func(Size))
	Disconnect()
}

// Scheduler runs a continuation after the current update has been handled.
type Scheduler interface {
	Defer(fn func())
}

// Queue is a Scheduler that holds continuations until they are drained.
type Queue struct {
	pending []func()
}

// Defer implements Scheduler.
func (q *Queue) Defer(fn func()) {
	if fn == nil {
		return
	}
	q.pending = append(q.pending, fn)
}

// Len reports how many continuations are waiting.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Drain removes and returns every pending continuation.
func (q *Queue) Drain() []func() {
	fns := q.pending
	q.pending = nil
	return fns
}

// RunPending runs every continuation queued so far and reports how many ran.
// Continuations queued while running are kept for the next call.
func (q *Queue) RunPending() int {
	fns := q.Drain()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}
