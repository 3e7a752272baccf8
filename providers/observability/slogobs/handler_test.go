package slogobs

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestHandler_Compact(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{
		Format: FormatCompact,
		Level:  slog.LevelDebug,
		Output: &buf,
	}))

	logger.Info("stage finished", "pipeline.stage", "billing", "records", 12)

	output := buf.String()
	for _, want := range []string{" INFO ", "stage finished", " → ", `"pipeline.stage":"billing"`, `"records":12`} {
		if !strings.Contains(output, want) {
			t.Errorf("output %q missing %q", output, want)
		}
	}
	if !strings.HasSuffix(output, "\n") {
		t.Errorf("expected trailing newline, got %q", output)
	}
}

func TestHandler_CompactWithoutAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Output: &buf}))

	logger.Info("plain")

	if strings.Contains(buf.String(), "→") {
		t.Errorf("separator should be omitted without attributes: %q", buf.String())
	}
}

func TestHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{
		Format: FormatJSON,
		Level:  slog.LevelDebug,
		Output: &buf,
	}))

	logger.Warn("attempt failed",
		"extract.attempt", 2,
		"duration", 1500*time.Millisecond,
		"error", errors.New("no json"),
	)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if got["level"] != "WARN" || got["msg"] != "attempt failed" {
		t.Errorf("unexpected standard fields: %v", got)
	}
	if got["extract.attempt"] != float64(2) {
		t.Errorf("extract.attempt = %v", got["extract.attempt"])
	}
	if got["duration"] != "1.5s" {
		t.Errorf("duration = %v, want 1.5s", got["duration"])
	}
	if got["error"] != "no json" {
		t.Errorf("error = %v, want \"no json\"", got["error"])
	}
}

func TestHandler_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&HandlerOptions{Level: slog.LevelWarn, Output: &buf}))

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Error("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("messages below WARN should be filtered: %q", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("ERROR message missing: %q", output)
	}
}

func TestHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(NewHandler(&HandlerOptions{Format: FormatJSON, Output: &buf}))

	base.With("run", "r-1").WithGroup("llm").Info("call", "model", "mistral")

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["run"] != "r-1" {
		t.Errorf("run = %v", got["run"])
	}
	if got["llm.model"] != "mistral" {
		t.Errorf("llm.model = %v, got map %v", got["llm.model"], got)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug - 4, "DEBUG"},
		{slog.LevelDebug, "DEBUG"},
		{slog.LevelInfo, "INFO"},
		{slog.LevelWarn, "WARN"},
		{slog.LevelError, "ERROR"},
		{slog.LevelError + 4, "ERROR"},
	}
	for _, tt := range tests {
		if got := levelString(tt.level); got != tt.want {
			t.Errorf("levelString(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
