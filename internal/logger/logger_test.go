package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("production", func(t *testing.T) {
		l := New(EnvProduction)
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})

	t.Run("development", func(t *testing.T) {
		l := New(EnvDevelopment)
		if l == nil {
			t.Fatal("expected logger to be non-nil")
		}
	})
}

func TestNewWithWriterProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(EnvProduction, &buf)

	l.Debug("hidden")
	l.Info("download started", "job_id", "job-1")

	line := strings.TrimSpace(buf.String())
	if strings.Contains(line, "hidden") {
		t.Error("debug records should be filtered in production")
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(line), &record); err != nil {
		t.Fatalf("expected JSON output, got %q: %v", line, err)
	}
	if record["job_id"] != "job-1" {
		t.Errorf("expected job_id attribute, got %v", record["job_id"])
	}
}

func TestNewWithWriterDevelopmentIsDebugText(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(EnvDevelopment, &buf)

	l.Debug("resolving transcoder", "path", "ffmpeg")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "path=ffmpeg") {
		t.Errorf("expected debug text record, got %q", out)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard logger should not be enabled")
	}
}
