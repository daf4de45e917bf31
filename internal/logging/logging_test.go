package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWritesToProvidedWriter(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", false)

	log.Info("hello world", "key", "value")

	out := buf.String()
	if !strings.Contains(out, "hello world") {
		t.Errorf("expected log output to contain message, got: %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected log output to contain attrs, got: %q", out)
	}
}

func TestNewRespectsLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn", false)

	log.Info("should not appear")
	log.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should not appear") {
		t.Errorf("expected info message to be filtered out at warn level, got: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("expected warn message to appear, got: %q", out)
	}
}

func TestParseLevelUnknownFallsBackToInfo(t *testing.T) {
	if got := parseLevel("nonsense"); got != slog.LevelInfo {
		t.Errorf("expected unknown level to fall back to info, got %v", got)
	}
}

func TestParseLevelCaseInsensitive(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG": slog.LevelDebug,
		"Warn":  slog.LevelWarn,
		"ERROR": slog.LevelError,
		"info":  slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewDefaultDoesNotPanic(t *testing.T) {
	log := NewDefault()
	if log == nil {
		t.Fatal("expected non-nil logger")
	}
}
