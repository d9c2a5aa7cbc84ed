// Package logging provides the leveled logger used across the archiver.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ciprianb/jenkins-log-archiver/internal/config"
)

// Logger is the small logging surface the rest of the code depends on.
// Variadic args are alternating key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type zeroLogger struct {
	l zerolog.Logger
}

// New builds a logger from the logging config.
func New(cfg config.LoggingConfig) Logger {
	var out io.Writer = os.Stderr
	if strings.EqualFold(cfg.Format, "console") {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	return &zeroLogger{
		l: zerolog.New(out).Level(level).With().Timestamp().Logger(),
	}
}

func (z *zeroLogger) Debug(msg string, args ...any) { emit(z.l.Debug(), msg, args) }
func (z *zeroLogger) Info(msg string, args ...any)  { emit(z.l.Info(), msg, args) }
func (z *zeroLogger) Warn(msg string, args ...any)  { emit(z.l.Warn(), msg, args) }
func (z *zeroLogger) Error(msg string, args ...any) { emit(z.l.Error(), msg, args) }

func emit(ev *zerolog.Event, msg string, args []any) {
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, args[i+1])
	}
	ev.Msg(msg)
}

// Nop discards everything. Useful in tests.
func Nop() Logger {
	return &zeroLogger{l: zerolog.Nop()}
}
