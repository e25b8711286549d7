package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/thermocard/internal/hass"
	"github.com/alexisbeaulieu97/thermocard/internal/ports"
	"github.com/alexisbeaulieu97/thermocard/internal/presentation"
	"github.com/alexisbeaulieu97/thermocard/internal/statecache"
	"github.com/alexisbeaulieu97/thermocard/internal/tui/card"
)

func runCard(cmd *cobra.Command, flags *rootFlags) error {
	// The card owns the terminal, so logs only go to a file when one is set.
	app, err := newAppContext(flags, io.Discard)
	if err != nil {
		return newCommandError("start the card", "loading configuration "+flags.configPath, err, suggestionFor(err))
	}
	defer app.Close()

	ctx, logger := app.CommandContext(cmd, "command.run")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	source, err := app.Source()
	if err != nil {
		logger.Error(ctx, "host source setup failed", "error", err)
		return newCommandError("start the card", "connecting to the host", err, suggestionFor(err))
	}

	var program *tea.Program
	store := hass.NewStore(hass.StoreOptions{
		Localize: app.Localizer.Localize,
		Watch:    []string{app.Config.Card.Entity},
		Notify: card.Forward(func(msg tea.Msg) {
			if program != nil {
				program.Send(msg)
			}
		}),
	})

	cache := app.StateCache(ctx, logger)
	var seed *presentation.Host
	if cache != nil && cache.Len() > 0 {
		store.ReplaceStates(cache.Snapshots())
		seed = store.Host()
		logger.Debug(ctx, "seeded from state cache", "entities", cache.Len(), "saved_at", cache.SavedAt())
	}

	model, err := card.NewModel(ctx, card.Options{
		Card:      app.Config.Card,
		Logger:    logger,
		Events:    app.Events,
		Localizer: app.Localizer,
		Source:    source,
		Sink:      store,
		Seed:      seed,
		Stop:      cancel,
	})
	if err != nil {
		return newCommandError("start the card", "configuring the card", err, suggestionFor(err))
	}

	logger.Info(ctx, "launching card",
		"entity_id", app.Config.Card.Entity,
		"simulated", app.Config.Simulator.Enabled,
		"language", app.Localizer.Language().String(),
	)

	program = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := program.Run()
	cancel()
	saveStates(ctx, logger, cache, store.Host())
	if err != nil && ctx.Err() == nil {
		logger.Error(ctx, "card execution failed", "error", err)
		return newCommandError("run the card", "running the terminal program", err, "Check that the terminal supports the alternate screen.")
	}

	if m, ok := final.(card.Model); ok && m.Err() != nil {
		return newCommandError("run the card", "streaming host states", m.Err(), suggestionFor(m.Err()))
	}

	logger.Info(ctx, "card closed")
	return nil
}

// saveStates records the host's states for the next session.
func saveStates(ctx context.Context, logger ports.Logger, cache *statecache.Cache, host *presentation.Host) {
	if cache == nil || host == nil || len(host.States) == 0 {
		return
	}
	for _, id := range host.States.IDs() {
		snap, _ := host.States.Get(id)
		cache.Put(snap)
	}
	if err := cache.Save(); err != nil {
		logger.Warn(ctx, "saving state cache failed", "error", err)
	}
}
