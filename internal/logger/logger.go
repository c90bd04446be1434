// Package logger builds the zerolog logger shared by both applications.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"hearth/internal/config"
)

func init() {
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New returns a JSON logger writing to stdout, or a console logger when cfg.Pretty is set.
func New(cfg config.LogConfig, service string, loc *time.Location) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(w, cfg.Level, service, loc)
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(w io.Writer, level, service string, loc *time.Location) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if loc == nil {
		loc = time.UTC
	}
	return zerolog.New(w).
		Level(lvl).
		Hook(locationHook{loc: loc}).
		With().
		Str("service", service).
		Logger()
}

// locationHook stamps entries in the configured timezone instead of the host's.
type locationHook struct {
	loc *time.Location
}

func (h locationHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	e.Str(zerolog.TimestampFieldName, time.Now().In(h.loc).Format(time.RFC3339Nano))
}
