// Package logging builds the single slog.Logger that is threaded through
// internal/task, internal/worker, internal/watchdog, and internal/search
// via constructor injection (§1). There is no package-level
// global logger; main wires one instance and passes it down.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// New builds a tint-backed slog.Logger writing to w. level is parsed
// case-insensitively ("debug", "info", "warn", "error"); an unrecognized
// value falls back to info. color enables ANSI coloring, which should be
// disabled for non-terminal output (log files, piped CI output).
func New(w io.Writer, level string, color bool) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := tint.NewHandler(w, &tint.Options{
		Level:      parseLevel(level),
		NoColor:    !color,
		TimeFormat: "15:04:05.000",
	})
	return slog.New(handler)
}

// NewDefault builds a logger writing colorized info-level output to stderr.
func NewDefault() *slog.Logger {
	return New(os.Stderr, "info", true)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
