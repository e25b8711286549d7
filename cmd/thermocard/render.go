package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/thermocard/internal/entity"
	"github.com/alexisbeaulieu97/thermocard/internal/hass"
	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
	"github.com/alexisbeaulieu97/thermocard/internal/statecache"
	"github.com/alexisbeaulieu97/thermocard/internal/theme"
	"github.com/alexisbeaulieu97/thermocard/internal/tui/card"
)

const defaultRenderWidth = 60

type renderOptions struct {
	width   int
	timeout time.Duration
}

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the card once and exit",
		Long: `Render connects to the host, waits for the first state set, prints the
card for the configured entity and exits. Output width follows the terminal
unless --width is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, root, opts)
		},
	}

	cmd.Flags().IntVar(&opts.width, "width", 0, "Output width in columns (0 follows the terminal)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "How long to wait for the host's states")

	return cmd
}

func runRender(cmd *cobra.Command, flags *rootFlags, opts *renderOptions) error {
	app, err := newAppContext(flags, cmd.ErrOrStderr())
	if err != nil {
		return newCommandError("render the card", "loading configuration "+flags.configPath, err, suggestionFor(err))
	}
	defer app.Close()

	ctx, logger := app.CommandContext(cmd, "command.render")

	source, err := app.Source()
	if err != nil {
		return newCommandError("render the card", "connecting to the host", err, suggestionFor(err))
	}

	cache := app.StateCache(ctx, logger)
	host, err := waitForHost(ctx, source, app.Localizer.Localize, opts.timeout)
	switch {
	case err == nil:
		saveStates(ctx, logger, cache, host)
	case cache != nil && cache.Len() > 0:
		logger.Warn(ctx, "host unavailable, rendering cached states", "error", err, "saved_at", cache.SavedAt())
		host = cachedHost(cache, app.Localizer.Localize)
	default:
		logger.Error(ctx, "no host states received", "error", err)
		return newCommandError("render the card", "waiting for the host's states", err, suggestionFor(err))
	}

	queue := &presentation.Queue{}
	controller := presentation.NewController(presentation.Options{
		Logger:    logger,
		Events:    app.Events,
		Controls:  card.NewControlFactory(app.Localizer),
		Scheduler: queue,
	})
	if err := controller.Configure(app.Config.Card); err != nil {
		return newCommandError("render the card", "configuring the card", err, suggestionFor(err))
	}
	controller.Mount(nil)
	defer controller.Unmount()

	controller.Update(ctx, host)
	queue.RunPending()

	fmt.Fprintln(cmd.OutOrStdout(), card.Render(controller.Fragment(), outputWidth(cmd.OutOrStdout(), opts.width)))
	return nil
}

// themesGrace bounds how long render waits for the theme registry once the
// states are in.
const themesGrace = 2 * time.Second

// waitForHost runs source until it delivers a state set and the theme
// registry, then stops it and returns what it delivered. A host that never
// answers the theme request is rendered with the default theme once
// themesGrace or the timeout runs out.
func waitForHost(parent context.Context, source hass.Source, localize presentation.LocalizeFunc, timeout time.Duration) (*presentation.Host, error) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	store := hass.NewStore(hass.StoreOptions{Localize: localize})
	sink := newReadySink(store)

	done := make(chan error, 1)
	go func() {
		done <- source.Run(ctx, sink)
	}()

	select {
	case <-sink.states:
	case err := <-done:
		if err == nil {
			err = errors.New("host source stopped before sending states")
		}
		return nil, err
	case <-ctx.Done():
		<-done
		return nil, fmt.Errorf("no states after %s: %w", timeout, ctx.Err())
	}

	grace := time.NewTimer(themesGrace)
	defer grace.Stop()
	select {
	case <-sink.themes:
	case <-grace.C:
	case <-ctx.Done():
	case <-done:
		return store.Host(), nil
	}
	cancel()
	<-done
	return store.Host(), nil
}

// readySink forwards to a store and signals the first non-empty state set and
// the first theme registry.
type readySink struct {
	hass.Sink
	states     chan struct{}
	themes     chan struct{}
	statesOnce sync.Once
	themesOnce sync.Once
}

func newReadySink(next hass.Sink) *readySink {
	return &readySink{Sink: next, states: make(chan struct{}), themes: make(chan struct{})}
}

func (r *readySink) ReplaceStates(snaps []entity.Snapshot) {
	r.Sink.ReplaceStates(snaps)
	if len(snaps) > 0 {
		r.statesOnce.Do(func() { close(r.states) })
	}
}

func (r *readySink) ReplaceThemes(reg theme.Registry) {
	r.Sink.ReplaceThemes(reg)
	r.themesOnce.Do(func() { close(r.themes) })
}

// cachedHost builds a host from the state cache with the default theme.
func cachedHost(cache *statecache.Cache, localize presentation.LocalizeFunc) *presentation.Host {
	store := hass.NewStore(hass.StoreOptions{Localize: localize})
	store.ReplaceStates(cache.Snapshots())
	return store.Host()
}

// outputWidth follows the terminal when out is one.
func outputWidth(out io.Writer, requested int) int {
	if requested > 0 {
		return requested
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return defaultRenderWidth
}
