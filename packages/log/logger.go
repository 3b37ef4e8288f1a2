// Package log sets up the slog loggers used by hitreq.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-logr/logr"
)

type LogLevel = slog.Level

const (
	DebugLevel = slog.LevelDebug
	InfoLevel  = slog.LevelInfo
	WarnLevel  = slog.LevelWarn
	ErrorLevel = slog.LevelError
)

// Option is a logger option.
type Option func(*options)

type options struct {
	level     LogLevel
	json      bool
	addSource bool
	w         io.Writer
}

func defaultOptions() *options {
	return &options{
		level: WarnLevel,
		w:     os.Stderr,
	}
}

// WithLevel sets the log level.
// The default log level is WarnLevel.
func WithLevel(level LogLevel) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithVerbose lowers the level to DebugLevel and records call sites.
func WithVerbose(verbose bool) Option {
	return func(o *options) {
		if verbose {
			o.level = DebugLevel
			o.addSource = true
		}
	}
}

// WithJSON switches to the JSON handler.
func WithJSON(json bool) Option {
	return func(o *options) {
		o.json = json
	}
}

// WithWriter sets the log destination. Defaults to stderr.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.w = w
	}
}

// New builds a logger from opts.
func New(opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	replace := func(groups []string, a slog.Attr) slog.Attr {
		// Remove the directory from the source's filename.
		if a.Key == slog.SourceKey {
			if s, ok := a.Value.Any().(*slog.Source); ok {
				s.File = filepath.Base(s.File)
			}
		}
		return a
	}
	hOpts := &slog.HandlerOptions{
		AddSource:   o.addSource,
		Level:       o.level,
		ReplaceAttr: replace,
	}
	if o.json {
		return slog.New(slog.NewJSONHandler(o.w, hOpts))
	}
	return slog.New(slog.NewTextHandler(o.w, hOpts))
}

// Logr adapts l for libraries that take a logr.Logger.
func Logr(l *slog.Logger) logr.Logger {
	return logr.FromSlogHandler(l.Handler())
}

// ParseLevel maps debug, info, warn or error to a level.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("unknown log level %q", s)
}
