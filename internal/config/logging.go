// Package config provides configuration loading, validation, and logging
// setup for dctx. Two concerns live here side by side: the tool's own
// OUTPUT_MODE setting (spec.md's literal KEY=VALUE grammar, hand-parsed)
// and an ambient logging.toml read through koanf for layered precedence.
//
// The logging subsystem uses log/slog exclusively. All log output is
// directed to os.Stderr to keep stdout clean for the manifest/archive
// output dctx produces.
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogging configures the global slog default logger with the given
// log level and format. format should be "json" for JSON output or any
// other value (including empty string) for human-readable text. All
// output goes to os.Stderr. Safe to call more than once.
func SetupLogging(level slog.Level, format string) {
	SetupLoggingWithWriter(level, format, os.Stderr)
}

// SetupLoggingWithWriter is SetupLogging with an explicit writer, used by
// tests to capture output instead of writing to os.Stderr.
func SetupLoggingWithWriter(level slog.Level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel maps a LoggingConfig.Level string ("debug", "info", "warn",
// "error") to a slog.Level, defaulting to slog.LevelInfo for anything else.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a child logger tagged with a "component" attribute.
func NewLogger(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
