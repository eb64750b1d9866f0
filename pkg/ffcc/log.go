package ffcc

import (
	"os"

	"github.com/rs/zerolog"
)

// Package logger for pipeline narration and degeneracy warnings.
// Defaults to human-readable lines on stderr, warnings and up.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.WarnLevel).
	With().Timestamp().Logger()

// SetLogger swaps the package logger wholesale, for callers that
// want their own sinks or fields.
func SetLogger(l zerolog.Logger) { logger = l }

// SetLogLevel adjusts verbosity: "debug", "info", "warn", "error", "off".
func SetLogLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	logger = logger.Level(lvl)
	return nil
}
