package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"

	"github.com/alexisbeaulieu97/thermocard/internal/config"
	"github.com/alexisbeaulieu97/thermocard/internal/ports"
)

// Options configures the charmbracelet/log adapter.
type Options struct {
	Writer       io.Writer
	Level        string
	TimeFormat   string
	ReportCaller bool
	Formatter    cblog.Formatter
	Layer        string
	Component    string
	Fields       map[string]interface{}
}

// Logger implements ports.Logger using charmbracelet/log.
type Logger struct {
	logger *cblog.Logger
	fields []interface{}
	layer  string
}

// New creates a Logger adapter with the supplied options.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		TimeFormat:      opts.TimeFormat,
		ReportTimestamp: opts.TimeFormat != "",
		ReportCaller:    opts.ReportCaller,
		Formatter:       opts.Formatter,
	})

	fields := make([]interface{}, 0, 2+len(opts.Fields)*2)
	if opts.Component != "" {
		fields = append(fields, "component", opts.Component)
	}
	fields = append(fields, sortedPairs(opts.Fields)...)

	layer := opts.Layer
	if layer == "" {
		layer = "infrastructure"
	}

	return &Logger{logger: base, fields: fields, layer: layer}, nil
}

// Formatter maps a configured log format name to a charmbracelet/log
// formatter. Unknown names fall back to text.
func Formatter(format string) cblog.Formatter {
	switch strings.ToLower(format) {
	case "json":
		return cblog.JSONFormatter
	case "logfmt":
		return cblog.LogfmtFormatter
	default:
		return cblog.TextFormatter
	}
}

// Open builds a logger from the log section of the configuration. When a log
// file is configured entries are appended to it; otherwise entries go to
// fallback, which may be io.Discard while the card owns the terminal. The
// returned writer is where entries end up, so other loggers can share it, and
// closing it releases the log file.
func Open(cfg config.LogConfig, fallback io.Writer) (*Logger, io.WriteCloser, error) {
	if fallback == nil {
		fallback = os.Stderr
	}
	var out io.WriteCloser = nopCloser{fallback}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file %s: %w", cfg.File, err)
		}
		out = f
	}

	logger, err := New(Options{
		Writer:     out,
		Level:      cfg.Level,
		Formatter:  Formatter(cfg.Format),
		TimeFormat: "2006-01-02T15:04:05Z07:00",
		Layer:      "application",
	})
	if err != nil {
		_ = out.Close()
		return nil, nil, err
	}
	return logger, out, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// Debug emits a debug log entry.
func (l *Logger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.DebugLevel, msg, fields...)
}

// Info emits an info log entry.
func (l *Logger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.InfoLevel, msg, fields...)
}

// Warn emits a warning log entry.
func (l *Logger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.WarnLevel, msg, fields...)
}

// Error emits an error log entry.
func (l *Logger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, cblog.ErrorLevel, msg, fields...)
}

// With derives a new logger with persistent fields. A "layer" pair replaces
// the layer instead of being repeated on every entry.
func (l *Logger) With(fields ...interface{}) ports.Logger {
	if l == nil {
		return Discard
	}
	layer := l.layer
	next := make([]interface{}, len(l.fields), len(l.fields)+len(fields))
	copy(next, l.fields)
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok && key == "layer" {
			if v, ok := fields[i+1].(string); ok && v != "" {
				layer = v
			}
			continue
		}
		next = append(next, fields[i], fields[i+1])
	}
	return &Logger{logger: l.logger, fields: next, layer: layer}
}

func (l *Logger) log(ctx context.Context, level cblog.Level, msg string, fields ...interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	payload := dedupe(l.fields, fields)
	payload = append(payload, "layer", l.layer)
	if id := ports.GetCorrelationID(ctx); id != "" {
		payload = append(payload, "correlation_id", id)
	}
	l.logger.Log(level, msg, payload...)
}

// dedupe concatenates key/value lists keeping the first position of each key
// and the last value written for it.
func dedupe(lists ...[]interface{}) []interface{} {
	index := make(map[string]int)
	out := make([]interface{}, 0)
	for _, values := range lists {
		for i := 0; i+1 < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok || key == "" {
				continue
			}
			if pos, seen := index[key]; seen {
				out[pos+1] = values[i+1]
				continue
			}
			index[key] = len(out)
			out = append(out, key, values[i+1])
		}
	}
	return out
}

func sortedPairs(input map[string]interface{}) []interface{} {
	if len(input) == 0 {
		return nil
	}
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		out = append(out, k, input[k])
	}
	return out
}
