package card

import (
	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
)

// windowObserver feeds terminal size changes to the controller. Sizes that
// arrive after Disconnect are dropped.
type windowObserver struct {
	onResize     func(presentation.Size)
	disconnected bool
	disconnects  int
}

func (o *windowObserver) Observe(onResize func(presentation.Size)) {
	o.onResize = onResize
	o.disconnected = false
}

func (o *windowObserver) Disconnect() {
	o.disconnects++
	o.disconnected = true
	o.onResize = nil
}

func (o *windowObserver) notify(size presentation.Size) {
	if o.disconnected || o.onResize == nil {
		return
	}
	o.onResize(size)
}
