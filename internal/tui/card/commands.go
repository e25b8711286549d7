package card

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/thermocard/internal/hass"
)

// runSourceCmd streams host data into sink until ctx is cancelled, then
// reports how the source stopped.
func runSourceCmd(ctx context.Context, source hass.Source, sink hass.Sink) tea.Cmd {
	if source == nil || sink == nil {
		return nil
	}
	return func() tea.Msg {
		err := source.Run(ctx, sink)
		if ctx.Err() != nil {
			err = nil
		}
		return SourceDoneMsg{Err: err}
	}
}
