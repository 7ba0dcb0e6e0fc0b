package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerTo_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := WithClipID(WithComponent(NewLoggerTo(&buf, "info"), "timeline"), "clip-1")

	logger.Debug("hidden")
	logger.Info("trimmed", "duration", 12.5)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "trimmed" {
		t.Errorf("msg = %v, want trimmed", entry["msg"])
	}
	if entry["component"] != "timeline" || entry["clip_id"] != "clip-1" {
		t.Errorf("missing attributes: %v", entry)
	}
}

func TestSanitizeToken(t *testing.T) {
	if got := SanitizeToken("short"); got != "****" {
		t.Errorf("SanitizeToken(short) = %q", got)
	}
	if got := SanitizeToken("abcdef0123456789"); got != "abcd...6789" {
		t.Errorf("SanitizeToken(long) = %q", got)
	}
}

func TestNewLoggerTo_DebugSource(t *testing.T) {
	var buf bytes.Buffer
	WithExportID(NewLoggerTo(&buf, "debug"), "exp-1").Debug("rendering")

	var entry struct {
		ExportID string `json:"export_id"`
		Source   struct {
			File string `json:"file"`
		} `json:"source"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry.ExportID != "exp-1" {
		t.Errorf("export_id = %q", entry.ExportID)
	}
	if entry.Source.File != filepath.Join("logging", "logging_test.go") {
		t.Errorf("source file = %q, want logging/logging_test.go", entry.Source.File)
	}
}

func TestSanitizePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]string{
		filepath.Join(home, ".heimdex-editor"): filepath.Join("~", ".heimdex-editor"),
		home:                                   "~",
		home + "-other":                        home + "-other",
		"/var/lib/editor":                      "/var/lib/editor",
	}
	for in, want := range tests {
		if got := SanitizePath(in); got != want {
			t.Errorf("SanitizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
