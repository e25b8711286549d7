package main

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/thermocard/internal/config"
	"github.com/alexisbeaulieu97/thermocard/internal/hass"
	"github.com/alexisbeaulieu97/thermocard/internal/i18n"
	"github.com/alexisbeaulieu97/thermocard/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/thermocard/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/thermocard/internal/logger"
	"github.com/alexisbeaulieu97/thermocard/internal/ports"
	"github.com/alexisbeaulieu97/thermocard/internal/statecache"
)

// AppContext bundles long-lived services created at startup.
type AppContext struct {
	Config        *config.Config
	Logger        ports.Logger
	HostLogger    *logger.Logger
	Events        *events.LoggingPublisher
	Localizer     *i18n.Localizer
	CorrelationID string

	flags  *rootFlags
	logOut io.WriteCloser
}

// newAppContext loads the configuration and builds the loggers. logFallback
// receives log entries when no log file is configured.
func newAppContext(flags *rootFlags, logFallback io.Writer) (*AppContext, error) {
	cfg, err := config.ParseConfig(flags.configPath, flags.overrides()...)
	if err != nil {
		return nil, err
	}
	return newAppContextFor(cfg, flags, logFallback)
}

func newAppContextFor(cfg *config.Config, flags *rootFlags, logFallback io.Writer) (*AppContext, error) {
	appLogger, out, err := logging.Open(cfg.Log, logFallback)
	if err != nil {
		return nil, err
	}
	hostLogger, err := logger.FromConfig(cfg.Log, out, "hass")
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	id := uuid.NewString()
	return &AppContext{
		Config:        cfg,
		Logger:        appLogger,
		HostLogger:    hostLogger.With("correlation_id", id),
		Events:        events.NewLoggingPublisher(appLogger),
		Localizer:     i18n.New(flags.language()),
		CorrelationID: id,
		flags:         flags,
		logOut:        out,
	}, nil
}

// CommandContext returns the command's context carrying the correlation id,
// and a logger scoped to operation.
func (a *AppContext) CommandContext(cmd *cobra.Command, operation string) (context.Context, ports.Logger) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ports.WithCorrelationID(ctx, a.CorrelationID)
	return ctx, a.Logger.With("operation", operation)
}

// Source returns the host source the configuration asks for.
func (a *AppContext) Source() (hass.Source, error) {
	return newSource(a.Config, a.HostLogger, a.Events)
}

// StateCache opens the last-known-state cache. It returns nil when caching is
// disabled or the cache cannot be opened; the card works without it.
func (a *AppContext) StateCache(ctx context.Context, logger ports.Logger) *statecache.Cache {
	if a.flags == nil || a.flags.noCache {
		return nil
	}
	path := a.flags.stateCache
	if path == "" {
		var err error
		if path, err = statecache.DefaultPath(); err != nil {
			logger.Warn(ctx, "state cache disabled", "error", err)
			return nil
		}
	}
	cache, err := statecache.Open(path)
	if err != nil {
		logger.Warn(ctx, "state cache disabled", "path", path, "error", err)
		return nil
	}
	return cache
}

// Close releases the log file.
func (a *AppContext) Close() error {
	if a.logOut == nil {
		return nil
	}
	return a.logOut.Close()
}

func newSource(cfg *config.Config, log *logger.Logger, publisher ports.EventPublisher) (hass.Source, error) {
	if cfg.Simulator.Enabled {
		return hass.NewSimulator(hass.SimulatorOptions{
			Interval: cfg.Simulator.Interval,
			Logger:   log.With("component", "simulator"),
		}), nil
	}
	client, err := hass.NewClient(hass.Options{
		URL:           cfg.Hass.URL,
		Token:         cfg.Hass.ResolveToken(),
		MinBackoff:    cfg.Hass.MinBackoff,
		MaxBackoff:    cfg.Hass.MaxBackoff,
		MaxReconnects: cfg.Hass.MaxReconnects,
		Logger:        log,
		Events:        publisher,
	})
	if err != nil {
		return nil, err
	}
	return client, nil
}

// overrides turns command-line flags into configuration overrides.
func (f *rootFlags) overrides() []config.Override {
	return []config.Override{func(cfg *config.Config) {
		if f.simulate {
			cfg.Simulator.Enabled = true
		}
		if f.logFile != "" {
			cfg.Log.File = f.logFile
		}
		if f.logLevel != "" {
			cfg.Log.Level = f.logLevel
		}
		if f.verbose {
			cfg.Log.Level = "debug"
		}
	}}
}

// language prefers --lang, then the POSIX locale variables.
func (f *rootFlags) language() string {
	if f.lang != "" {
		return f.lang
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" && v != "C" && v != "POSIX" {
			// it_IT.UTF-8 -> it-IT
			v, _, _ = strings.Cut(v, ".")
			return strings.ReplaceAll(v, "_", "-")
		}
	}
	return ""
}
