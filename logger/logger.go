// Package logger provides structured logging for the backend
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates the service logger. Pretty output is for development; the
// default is JSON lines on stdout.
func New(level string, pretty bool) zerolog.Logger {
	return NewWithOutput(level, pretty, os.Stdout)
}

// NewWithOutput creates a logger writing to the given sink
func NewWithOutput(level string, pretty bool, output io.Writer) zerolog.Logger {
	parsed := zerolog.InfoLevel
	switch level {
	case "debug":
		parsed = zerolog.DebugLevel
	case "info":
		parsed = zerolog.InfoLevel
	case "warn":
		parsed = zerolog.WarnLevel
	case "error":
		parsed = zerolog.ErrorLevel
	}

	if pretty {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	return zerolog.New(output).
		Level(parsed).
		With().
		Timestamp().
		Str("service", "regintel-backend").
		Logger()
}
