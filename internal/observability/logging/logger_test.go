package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewWithWriterEmitsServiceAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "api", "info", "json")

	logger.Info("started", "port", 8080)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if record["service"] != "api" {
		t.Errorf("service = %v, want api", record["service"])
	}
	if record["msg"] != "started" {
		t.Errorf("msg = %v", record["msg"])
	}
}

func TestNewWithWriterTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "worker", "info", "text")

	logger.Info("started")
	if !strings.Contains(buf.String(), "service=worker") {
		t.Errorf("text output missing service attribute: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
