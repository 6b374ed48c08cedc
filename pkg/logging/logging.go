// Package logging adapts zerolog to frames.Logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	frames "github.com/goliatone/go-frames"
	"github.com/rs/zerolog"
)

// NewConsole builds a human readable zerolog logger tagged with app. An
// empty level means info.
func NewConsole(out io.Writer, app, level string) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stdout
	}
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
		lvl = parsed
	}
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(lvl).With().Timestamp().Str("app", app).Logger(), nil
}

// NewJSON builds a zerolog logger writing one JSON object per event.
func NewJSON(out io.Writer, app string, level zerolog.Level) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("app", app).Logger()
}

// Logger writes registry events to a zerolog logger.
type Logger struct {
	base zerolog.Logger
}

// New wraps base as a frames.Logger. Failures log at error level, anomalies
// at warn, everything else at debug.
func New(base zerolog.Logger) *Logger {
	return &Logger{base: base}
}

// Log implements frames.Logger.
func (l *Logger) Log(event frames.LogEvent) {
	entry := l.base.Debug()
	switch {
	case event.Err != nil:
		entry = l.base.Error().Err(event.Err)
	case event.Kind == frames.EventAnomaly:
		entry = l.base.Warn()
	}
	entry = entry.
		Str("kind", string(event.Kind)).
		Str("op", event.Op).
		Str("frame", event.Frame)
	if event.Slot != "" {
		entry = entry.Str("slot", event.Slot)
	}
	if event.Demon != frames.DemonNone {
		entry = entry.Str("demon", event.Demon.String())
	}
	if event.Target != "" {
		entry = entry.Str("target", event.Target)
	}
	if event.Duration > 0 {
		entry = entry.Dur("duration", event.Duration)
	}
	msg := event.Message
	if msg == "" {
		msg = "frames_" + string(event.Kind)
	}
	entry.Bool("ok", event.OK).Msg(msg)
}
