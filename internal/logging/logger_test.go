package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func captureDefault(t *testing.T, format string) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupWriter(&buf, "debug", format)
	return &buf
}

func TestWithFields_AddsFieldsAndRequestID(t *testing.T) {
	buf := captureDefault(t, "text")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	WithFields(ctx, "format", "csv").Info("table exported", "rows", 7)

	out := buf.String()
	for _, want := range []string{"table exported", "format=csv", "rows=7", "request_id=req-42"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestFromContext_StoredLoggerWins(t *testing.T) {
	buf := captureDefault(t, "json")

	ctx := WithLogger(context.Background(), slog.Default().With("session_id", "abc"))
	WithFields(ctx, "stream", "table_events").Warn("closed")

	out := buf.String()
	for _, want := range []string{`"session_id":"abc"`, `"stream":"table_events"`, `"level":"WARN"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
