// Package logging configures the zerolog logger shared by the host, the
// hook-chain manager and the CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config selects level, format and destination.
type Config struct {
	// Level is a zerolog level name (debug, info, warn, error). Unknown
	// names fall back to info.
	Level string

	// Format is "console" or "json".
	Format string

	// Output receives log lines. Nil means stderr.
	Output io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}
	if cfg.Format != "json" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05", NoColor: cfg.Output != nil}
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

// Global installs a logger built from cfg as the process default. Loggers
// created afterwards by host.New and hookchain.For derive from it.
func Global(cfg Config) zerolog.Logger {
	l := New(cfg)
	log.Logger = l
	return l
}

// Discard is a logger that writes nothing.
func Discard() zerolog.Logger {
	return zerolog.Nop()
}
