// Package config provides configuration management for the Heimdex Editor.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	// Default values
	DefaultPort     = 8788
	DefaultLogLevel = "info"
	DefaultDataDir  = ".heimdex-editor"
	DefaultZoom     = 11.0
	MinZoom         = 4.0
	MaxZoom         = 40.0

	// Environment variable names
	EnvPort     = "HEIMDEX_EDITOR_PORT"
	EnvLogLevel = "HEIMDEX_EDITOR_LOG_LEVEL"
	EnvDataDir  = "HEIMDEX_EDITOR_DATA_DIR"
	EnvLibrary  = "HEIMDEX_EDITOR_LIBRARY"
	EnvSnap     = "HEIMDEX_EDITOR_SNAP"
	EnvZoom     = "HEIMDEX_EDITOR_ZOOM"
	EnvHeadless = "HEIMDEX_EDITOR_HEADLESS"
	EnvSeed     = "HEIMDEX_EDITOR_SEED"

	// Database filename
	DBFilename = "editor.db"

	// Export runner poll interval
	DefaultExportPollInterval = 2 * time.Second
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	LibraryPath() string
	Snap() bool
	Zoom() float64
	Headless() bool
	SeedTimeline() bool
	ExportPollInterval() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port        int
	logLevel    string
	dataDir     string
	libraryPath string
	snap        bool
	zoom        float64
	headless    bool
	seed        bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:     DefaultPort,
		logLevel: DefaultLogLevel,
		dataDir:  defaultDataDir(),
		zoom:     DefaultZoom,
		seed:     true,
	}

	if p := os.Getenv(EnvPort); p != "" {
		if err := cfg.SetPort(p); err != nil {
			return nil, err
		}
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.libraryPath = os.Getenv(EnvLibrary)

	var err error
	if cfg.snap, err = envBool(EnvSnap, false); err != nil {
		return nil, err
	}
	if cfg.headless, err = envBool(EnvHeadless, false); err != nil {
		return nil, err
	}
	if cfg.seed, err = envBool(EnvSeed, true); err != nil {
		return nil, err
	}

	if z := os.Getenv(EnvZoom); z != "" {
		zoom, err := strconv.ParseFloat(z, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvZoom, err)
		}
		if zoom < MinZoom || zoom > MaxZoom {
			return nil, fmt.Errorf("invalid %s: zoom must be between %.0f and %.0f", EnvZoom, MinZoom, MaxZoom)
		}
		cfg.zoom = zoom
	}

	return cfg, nil
}

// SetPort validates and applies a port given as text (env or CLI flag).
func (c *EnvConfig) SetPort(p string) error {
	port, err := strconv.Atoi(p)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", EnvPort, err)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
	}
	c.port = port
	return nil
}

// SetLogLevel overrides the log level, e.g. from a --debug flag.
func (c *EnvConfig) SetLogLevel(level string) {
	if level != "" {
		c.logLevel = level
	}
}

// SetHeadless overrides the headless flag from the command line.
func (c *EnvConfig) SetHeadless(headless bool) {
	c.headless = headless
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// LibraryPath returns the optional YAML catalog path; empty means built-in.
func (c *EnvConfig) LibraryPath() string {
	return c.libraryPath
}

func (c *EnvConfig) Snap() bool {
	return c.snap
}

func (c *EnvConfig) Zoom() float64 {
	return c.zoom
}

func (c *EnvConfig) Headless() bool {
	return c.headless
}

func (c *EnvConfig) SeedTimeline() bool {
	return c.seed
}

func (c *EnvConfig) ExportPollInterval() time.Duration {
	return DefaultExportPollInterval
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
