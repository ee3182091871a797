// Package logging builds the bot's zerolog root logger from config.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level   string
	Console bool
	File    FileConfig
}

type FileConfig struct {
	Enabled bool
	Path    string
}

// New returns the root logger and a closer for the optional file sink.
// Console output is a human-readable writer; the file sink stays JSON.
// The level is applied globally so a config reload can change it for
// every derived logger at once.
func New(cfg Config) (zerolog.Logger, func() error) {
	SetLevel(cfg.Level)

	var writers []io.Writer
	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	closeFn := func() error { return nil }
	if cfg.File.Enabled && strings.TrimSpace(cfg.File.Path) != "" {
		f, err := os.OpenFile(cfg.File.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			writers = append(writers, f)
			closeFn = f.Close
		}
	}

	if len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	log := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		With().Timestamp().Logger()
	return log, closeFn
}

// SetLevel parses a config level string and applies it process-wide,
// returning the level that took effect. Used at startup and on reload.
func SetLevel(s string) zerolog.Level {
	level := ParseLevel(s)
	zerolog.SetGlobalLevel(level)
	return level
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component derives a child logger tagged with a component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("comp", name).Logger()
}
