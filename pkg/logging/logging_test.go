package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestLogLevelSlogLevel(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(42), slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := tt.level.SlogLevel(); got != tt.want {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, &buf)

	Debug("test", "debug message")
	Info("test", "info message")
	Warn("test", nil, "warn message")
	Error("test", nil, "error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("entries below the configured level were written:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("entries at or above the configured level missing:\n%s", out)
	}
}

func TestSubsystemAndErrorAttrs(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)

	Error("oauth", errors.New("boom"), "refresh failed for %s", "acct-1")

	out := buf.String()
	if !strings.Contains(out, "subsystem=oauth") {
		t.Errorf("subsystem attribute missing:\n%s", out)
	}
	if !strings.Contains(out, "error=boom") {
		t.Errorf("error attribute missing:\n%s", out)
	}
	if !strings.Contains(out, "refresh failed for acct-1") {
		t.Errorf("formatted message missing:\n%s", out)
	}
}

func TestLoggingBeforeInitIsSilent(t *testing.T) {
	mu.Lock()
	saved := defaultLogger
	defaultLogger = nil
	mu.Unlock()
	defer func() {
		mu.Lock()
		defaultLogger = saved
		mu.Unlock()
	}()

	// Must not panic
	Info("test", "no logger yet")
}
