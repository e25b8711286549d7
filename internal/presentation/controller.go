package presentation

import (
	"context"
	"strings"

	"github.com/alexisbeaulieu97/thermocard/internal/config"
	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/thermocard/internal/ports"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
)

// cardSize is the number of grid rows the card asks the host for.
const cardSize = 7

// Phase is the controller's lifecycle state.
type Phase int

const (
	PhaseUnmounted Phase = iota
	// PhaseMounted means the root fragment exists but shows no entity.
	PhaseMounted
	// PhaseRendered means the fragment shows the configured entity.
	PhaseRendered
)

func (p Phase) String() string {
	switch p {
	case PhaseMounted:
		return "mounted"
	case PhaseRendered:
		return "rendered"
	default:
		return "unmounted"
	}
}

// LayoutConstraint caps the embedded control's size. It follows the last
// observed container height.
type LayoutConstraint struct {
	MaxSize int
}

// Options configures a Controller.
type Options struct {
	Logger    ports.Logger
	Events    ports.EventPublisher
	Controls  ControlFactory
	Scheduler Scheduler
}

// Controller owns the card lifecycle: mount, configure, update, resize and
// unmount. It is not safe for concurrent use; every entry point must be
// called from the same event loop.
type Controller struct {
	logger    ports.Logger
	events    ports.EventPublisher
	controls  ControlFactory
	scheduler Scheduler

	phase      Phase
	root       *Fragment
	observer   ResizeObserver
	config     *config.CardConfig
	host       *Host
	control    Control
	constraint *LayoutConstraint
	missing    bool

	// generation changes on every render, reconfigure and unmount; deferred
	// work captured under an older generation is dropped.
	generation uint64
}

// NewController builds an unmounted controller.
func NewController(opts Options) *Controller {
	logger := logging.OrDiscard(opts.Logger)
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = &Queue{}
	}
	return &Controller{
		logger:    logger.With("component", "controller", "layer", "presentation"),
		events:    opts.Events,
		controls:  opts.Controls,
		scheduler: scheduler,
	}
}

// CardSize returns the number of grid rows the card occupies.
func (c *Controller) CardSize() int {
	return cardSize
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Generation returns the current render generation.
func (c *Controller) Generation() uint64 {
	return c.generation
}

// Fragment returns a copy of the rendered fragment. It is the zero Fragment
// while unmounted.
func (c *Controller) Fragment() Fragment {
	if c.root == nil || c.phase == PhaseUnmounted {
		return Fragment{}
	}
	return c.root.clone()
}

// Control returns the embedded control currently owned by the controller.
func (c *Controller) Control() Control {
	return c.control
}

// Constraint returns the layout constraint, if a size has been observed since
// the last mount.
func (c *Controller) Constraint() (LayoutConstraint, bool) {
	if c.constraint == nil {
		return LayoutConstraint{}, false
	}
	return *c.constraint, true
}

// Config returns the active card configuration.
func (c *Controller) Config() (config.CardConfig, bool) {
	if c.config == nil {
		return config.CardConfig{}, false
	}
	return *c.config, true
}

// Mount allocates the root fragment and starts observing container size.
// Mounting an already mounted controller does nothing.
func (c *Controller) Mount(observer ResizeObserver) {
	if c.phase != PhaseUnmounted {
		return
	}
	if c.root == nil {
		c.root = &Fragment{}
	}
	c.phase = PhaseMounted
	if observer != nil {
		c.observer = observer
		observer.Observe(c.onResize)
	}
	c.logger.Debug(context.Background(), "card mounted")
}

// Configure sets the card configuration. Invalid configurations are rejected
// and leave the previous configuration in place.
func (c *Controller) Configure(cfg config.CardConfig) error {
	if err := cfg.Validate(); err != nil {
		c.logger.Warn(context.Background(), "card configuration rejected", "entity_id", cfg.Entity, "error", err)
		return err
	}
	cfg.Entity = strings.TrimSpace(cfg.Entity)
	c.config = &cfg
	c.missing = false
	c.generation++
	c.logger.Debug(context.Background(), "card configured", "entity_id", cfg.Entity, "theme", cfg.Theme)
	return nil
}

// Update receives a new host state set and reconciles the fragment. Updates
// before mount or configuration are remembered but not rendered.
func (c *Controller) Update(ctx context.Context, host *Host) {
	c.host = host
	if c.phase == PhaseUnmounted || c.config == nil || host == nil {
		return
	}
	c.reconcile(ctx)
}

// Unmount stops resize observation and releases the embedded control. It is
// safe to call at any time, any number of times.
func (c *Controller) Unmount() {
	if c.observer != nil {
		c.observer.Disconnect()
		c.observer = nil
	}
	c.releaseControl()
	c.constraint = nil
	if c.root != nil {
		*c.root = Fragment{}
	}
	wasMounted := c.phase != PhaseUnmounted
	c.phase = PhaseUnmounted
	c.generation++
	if wasMounted {
		c.logger.Debug(context.Background(), "card unmounted")
	}
}

// RequestMoreInfo notifies the host that the user wants the entity's detail
// view. It changes no controller state.
func (c *Controller) RequestMoreInfo(ctx context.Context) error {
	if c.config == nil || c.events == nil {
		return nil
	}
	return c.events.Publish(ctx, ports.NewEvent(ports.EventMoreInfo, map[string]interface{}{
		"entity_id": c.config.Entity,
	}))
}

func (c *Controller) reconcile(ctx context.Context) {
	entityID := c.config.Entity
	snap, ok := c.host.States.Get(entityID)
	if !ok {
		c.renderNotFound(ctx, entityID)
		return
	}
	if c.missing {
		c.logger.Info(ctx, "entity available again", "entity_id", entityID)
	}
	c.missing = false

	activeTheme := c.host.Themes.Resolve(c.config.Theme)
	color := ResolveColor(snap, ColorSources{Host: c.host.ColorFunc, Theme: activeTheme})
	indicator := ResolveIndicator(snap)

	frag := Fragment{
		Title:         c.title(snap),
		Indicator:     indicator,
		Color:         color,
		StyleVars:     c.styleVars(color, AccentColor(activeTheme)),
		MoreInfoLabel: c.moreInfoLabel(),
	}

	control := c.reconcileControl(snap.Domain())
	if control != nil {
		control.SetHost(c.host)
		control.SetSnapshot(snap)
		control.SetColor(color)
		if c.constraint != nil && c.constraint.MaxSize > 0 {
			control.SetMaxSize(c.constraint.MaxSize)
		}
	}
	frag.Control = control

	*c.root = frag
	c.phase = PhaseRendered
	c.generation++
	c.scheduleCorrection(c.generation, control)

	c.logger.Debug(ctx, "card reconciled",
		"entity_id", entityID,
		"state", snap.State,
		"color", color.String(),
		"active", indicator.Active,
		"generation", c.generation,
	)
}

func (c *Controller) renderNotFound(ctx context.Context, entityID string) {
	c.releaseControl()
	*c.root = Fragment{Placeholder: notFoundText(entityID)}
	c.phase = PhaseMounted
	c.generation++

	if c.missing {
		return
	}
	c.missing = true
	c.logger.Warn(ctx, "entity not found", "entity_id", entityID)
	if c.events != nil {
		_ = c.events.Publish(ctx, ports.NewEvent(ports.EventEntityMissing, map[string]interface{}{
			"entity_id": entityID,
		}))
	}
}

// reconcileControl keeps the current control when it already serves domain and
// replaces it otherwise.
func (c *Controller) reconcileControl(domain entity.Domain) Control {
	if c.control != nil && c.control.Domain() == domain {
		return c.control
	}
	c.releaseControl()
	if c.controls == nil {
		return nil
	}
	control := c.controls(domain)
	if control == nil {
		return nil
	}
	control.SetPreventScrollInteraction(true)
	c.control = control
	return control
}

func (c *Controller) releaseControl() {
	if c.control == nil {
		return
	}
	c.control.Close()
	c.control = nil
}

// scheduleCorrection queues the post-render check that brings the control up
// to date with the latest host snapshot once the fragment has settled.
func (c *Controller) scheduleCorrection(generation uint64, control Control) {
	if control == nil {
		return
	}
	c.scheduler.Defer(func() {
		if c.phase == PhaseUnmounted || c.generation != generation || c.control != control {
			return
		}
		control.Refresh()
		if c.host == nil || c.config == nil {
			return
		}
		latest, ok := c.host.States.Get(c.config.Entity)
		if ok && !latest.Equal(control.Snapshot()) {
			control.SetSnapshot(latest)
		}
	})
}

func (c *Controller) onResize(size Size) {
	if c.phase == PhaseUnmounted {
		return
	}
	if size.Height <= 0 {
		return
	}
	c.constraint = &LayoutConstraint{MaxSize: size.Height}
	if c.control != nil {
		c.control.SetMaxSize(size.Height)
	}
}

func (c *Controller) title(snap entity.Snapshot) string {
	if c.config.Name != "" {
		return c.config.Name
	}
	if name := snap.StringAttr(entity.AttrFriendlyName); name != "" {
		return name
	}
	return c.config.Entity
}

func (c *Controller) styleVars(color, accent Color) map[string]string {
	vars := make(map[string]string)
	if color.IsSet() {
		vars[theme.StateColor] = color.String()
	}
	if accent.IsSet() {
		vars[theme.HeatingActive] = accent.String()
	}
	if c.config.Theme != "" {
		if named, ok := c.host.Themes.Named(c.config.Theme); ok {
			for _, name := range named.Names() {
				vars[name] = named.Lookup(name)
			}
		}
	}
	return vars
}

func (c *Controller) moreInfoLabel() string {
	if label := c.host.localize(moreInfoKey); label != "" {
		return label
	}
	return moreInfoFallback
}
