package app

import (
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"INFO", LogLevelInfo},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"nonsense", LogLevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf strings.Builder
	log := NewLogger(LogLevelWarn, &buf)

	log.Debug("quiet")
	log.Info("quiet")
	log.Warn("loud")
	log.Error("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("low-severity messages leaked: %q", out)
	}
	if strings.Count(out, "loud") != 2 {
		t.Errorf("expected two messages, got %q", out)
	}
}

func TestLoggerFields(t *testing.T) {
	var buf strings.Builder
	log := NewLogger(LogLevelInfo, &buf).WithComponent("session").WithField("n", 3)

	log.Info("opened")
	out := buf.String()
	if !strings.Contains(out, "component=session") {
		t.Errorf("missing component field: %q", out)
	}
	if !strings.Contains(out, "n=3") {
		t.Errorf("missing field: %q", out)
	}
}

func TestLoggerDisable(t *testing.T) {
	var buf strings.Builder
	log := NewLogger(LogLevelDebug, &buf)
	log.Disable()
	log.Error("nothing")
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote output: %q", buf.String())
	}
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf strings.Builder
	log := NewLogger(LogLevelInfo, &buf)
	log.Info("saved %s (%d bytes)", "a.txt", 12)
	if !strings.Contains(buf.String(), "saved a.txt (12 bytes)") {
		t.Errorf("formatting failed: %q", buf.String())
	}
}
