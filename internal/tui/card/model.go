// Package card is the terminal host of the thermostat card: a bubbletea
// program that mounts a presentation.Controller, forwards host pushes and
// window sizes to it and draws the resulting fragment.
package card

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/thermocard/internal/config"
	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/hass"
	"github.com/alexisbeaulieu97/thermocard/internal/i18n"
	"github.com/alexisbeaulieu97/thermocard/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/thermocard/internal/ports"
	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
)

// chromeRows is the number of terminal rows the card uses around the
// embedded control: border, title, more-info line and footer.
const (
	chromeRows = 6
	chromeCols = 4
)

// Options configures a Model.
type Options struct {
	Card      config.CardConfig
	Logger    ports.Logger
	Events    ports.EventPublisher
	Localizer *i18n.Localizer

	// Source feeds Sink once the program starts. Both may be nil when host
	// pushes are delivered some other way.
	Source hass.Source
	Sink   hass.Sink

	// Seed is drawn until the source delivers its first state set.
	Seed *presentation.Host

	// Stop is called when the user quits, to stop the host source.
	Stop func()
}

// Model is the card program's model
type Model struct {
	ctx        context.Context
	controller *presentation.Controller
	observer   *windowObserver
	queue      *presentation.Queue
	logger     ports.Logger
	source     hass.Source
	sink       hass.Sink
	stop       func()

	// UI state
	viewMode ViewMode
	spinner  spinner.Model
	status   hass.Status
	host     *presentation.Host
	err      error
	quitting bool

	// Dimensions
	width   int
	height  int
	offset  int
	sizeErr string
}

// NewModel builds the controller, mounts it and applies the card
// configuration. Invalid configurations are returned as errors.
func NewModel(ctx context.Context, opts Options) (Model, error) {
	logger := logging.OrDiscard(opts.Logger)
	queue := &presentation.Queue{}
	controller := presentation.NewController(presentation.Options{
		Logger:    logger,
		Events:    opts.Events,
		Controls:  NewControlFactory(opts.Localizer),
		Scheduler: queue,
	})
	if err := controller.Configure(opts.Card); err != nil {
		return Model{}, err
	}

	observer := &windowObserver{}
	controller.Mount(observer)

	var seed *presentation.Host
	if opts.Seed != nil && len(opts.Seed.States) > 0 {
		seed = opts.Seed
		controller.Update(ctx, seed)
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = mutedStyle

	return Model{
		ctx:        ctx,
		controller: controller,
		observer:   observer,
		queue:      queue,
		logger:     logger.With("component", "tui", "layer", "presentation"),
		source:     opts.Source,
		sink:       opts.Sink,
		stop:       opts.Stop,
		viewMode:   ViewCard,
		spinner:    s,
		host:       seed,
	}, nil
}

// Init initializes the model and returns initial commands
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.flush(), runSourceCmd(m.ctx, m.source, m.sink))
}

// Controller exposes the card controller.
func (m Model) Controller() *presentation.Controller {
	return m.controller
}

// GetViewMode returns the current view mode
func (m Model) GetViewMode() ViewMode {
	return m.viewMode
}

// Status returns the last connection status.
func (m Model) Status() hass.Status {
	return m.status
}

// Err returns the error that stopped the host source, if any.
func (m Model) Err() error {
	return m.err
}

// flush turns pending deferred work into a single command.
func (m Model) flush() tea.Cmd {
	if m.queue.Len() == 0 {
		return nil
	}
	return func() tea.Msg { return correctionMsg{} }
}

// containerSize is the space left to the embedded control.
func (m Model) containerSize() presentation.Size {
	size := presentation.Size{Width: m.width - chromeCols, Height: m.height - chromeRows}
	if size.Width < 1 {
		size.Width = 1
	}
	if size.Height < 1 {
		size.Height = 1
	}
	return size
}

func (m Model) snapshot() (entity.Snapshot, bool) {
	if m.host == nil {
		return entity.Snapshot{}, false
	}
	return m.host.States.Get(m.entityID())
}
