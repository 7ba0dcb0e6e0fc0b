package config

import (
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvPort, EnvLogLevel, EnvDataDir, EnvLibrary, EnvSnap, EnvZoom, EnvHeadless, EnvSeed} {
		t.Setenv(key, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.Snap() {
		t.Error("Snap() = true, want false")
	}
	if cfg.Zoom() != DefaultZoom {
		t.Errorf("Zoom() = %v, want %v", cfg.Zoom(), DefaultZoom)
	}
	if !cfg.SeedTimeline() {
		t.Error("SeedTimeline() = false, want true")
	}
	if cfg.Headless() {
		t.Error("Headless() = true, want false")
	}
	if cfg.LibraryPath() != "" {
		t.Errorf("LibraryPath() = %q, want empty", cfg.LibraryPath())
	}
}

func TestNew_FromEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv(EnvPort, "9001")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvDataDir, dir)
	t.Setenv(EnvLibrary, "/tmp/library.yaml")
	t.Setenv(EnvSnap, "true")
	t.Setenv(EnvZoom, "22")
	t.Setenv(EnvHeadless, "1")
	t.Setenv(EnvSeed, "false")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9001 {
		t.Errorf("Port() = %d, want 9001", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q, want debug", cfg.LogLevel())
	}
	if cfg.DBPath() != filepath.Join(dir, DBFilename) {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
	if cfg.LibraryPath() != "/tmp/library.yaml" {
		t.Errorf("LibraryPath() = %q", cfg.LibraryPath())
	}
	if !cfg.Snap() || !cfg.Headless() || cfg.SeedTimeline() {
		t.Errorf("flags = snap:%v headless:%v seed:%v", cfg.Snap(), cfg.Headless(), cfg.SeedTimeline())
	}
	if cfg.Zoom() != 22 {
		t.Errorf("Zoom() = %v, want 22", cfg.Zoom())
	}
}

func TestNew_InvalidEnv(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port not a number", EnvPort, "http"},
		{"port out of range", EnvPort, "70000"},
		{"zoom not a number", EnvZoom, "wide"},
		{"zoom out of range", EnvZoom, "100"},
		{"snap not a bool", EnvSnap, "sometimes"},
		{"headless not a bool", EnvHeadless, "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%q should fail", tt.key, tt.value)
			}
		})
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := cfg.SetPort("8123"); err != nil {
		t.Fatalf("SetPort() error = %v", err)
	}
	if cfg.Port() != 8123 {
		t.Errorf("Port() = %d, want 8123", cfg.Port())
	}
	if err := cfg.SetPort("0"); err == nil {
		t.Error("SetPort(0) should fail")
	}

	cfg.SetLogLevel("")
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("empty SetLogLevel changed level to %q", cfg.LogLevel())
	}
	cfg.SetLogLevel("warn")
	if cfg.LogLevel() != "warn" {
		t.Errorf("LogLevel() = %q, want warn", cfg.LogLevel())
	}

	cfg.SetHeadless(true)
	if !cfg.Headless() {
		t.Error("SetHeadless(true) not applied")
	}
}
