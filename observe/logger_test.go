package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	logger.Info(context.Background(), "hello",
		Field{Key: "scope.name", Value: "job"},
		Field{Key: "count", Value: 3},
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if entry["level"] != "info" {
		t.Errorf("level = %v, want info", entry["level"])
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want hello", entry["msg"])
	}
	if entry["scope.name"] != "job" {
		t.Errorf("scope.name = %v, want job", entry["scope.name"])
	}
	if entry["count"] != float64(3) {
		t.Errorf("count = %v, want 3", entry["count"])
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Error("entry has no timestamp")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)

	ctx := context.Background()
	logger.Debug(ctx, "dropped debug")
	logger.Info(ctx, "dropped info")
	logger.Warn(ctx, "kept warn")
	logger.Error(ctx, "kept error")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("below-level entries were written:\n%s", out)
	}
	if !strings.Contains(out, "kept warn") || !strings.Contains(out, "kept error") {
		t.Errorf("at-level entries missing:\n%s", out)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Errorf("wrote %d lines, want 2", len(lines))
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.in); got != tt.want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLogLevel_String(t *testing.T) {
	for _, level := range []LogLevel{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if ParseLogLevel(level.String()) != level {
			t.Errorf("round trip failed for %v", level)
		}
	}
}

func TestNoopLogger(t *testing.T) {
	var l noopLogger
	ctx := context.Background()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
}
