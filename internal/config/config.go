// ABOUTME: FitSync configuration management with backend selection.
// ABOUTME: Handles settings, env overrides, the logger and the storage backend factory.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/stevenrego/FitSync-Pro/internal/charm"
	"github.com/stevenrego/FitSync-Pro/internal/storage"
)

// Environment variables that override the config file.
const (
	EnvBackend  = "FITSYNC_BACKEND"
	EnvDataDir  = "FITSYNC_DATA_DIR"
	EnvLogLevel = "FITSYNC_LOG_LEVEL"
	EnvProfile  = "FITSYNC_PROFILE"
)

const (
	DefaultLogLevel       = "warn"
	DefaultAdjustSchedule = "@weekly"
)

// Config stores fitsync tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage. SQLite puts fitsync.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/fitsync.
	DataDir string `json:"data_dir,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty"`

	// AdjustSchedule is the cron spec for the difficulty review.
	AdjustSchedule string `json:"adjust_schedule,omitempty"`

	// DefaultProfile is the profile ID or prefix used when --profile is omitted.
	DefaultProfile string `json:"default_profile,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return "sqlite"
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to warn.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return DefaultLogLevel
	}
	return c.LogLevel
}

// GetAdjustSchedule returns the cron spec for the weekly review.
func (c *Config) GetAdjustSchedule() string {
	if c.AdjustSchedule == "" {
		return DefaultAdjustSchedule
	}
	return c.AdjustSchedule
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()

	switch backend {
	case "sqlite":
		return storage.Open(filepath.Join(c.GetDataDir(), "fitsync.db"))
	case "charm":
		return charm.InitClient()
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// NewLogger builds a stderr logger at the given level. Unknown levels fall back to warn.
func NewLogger(level string) *log.Logger {
	return newLogger(os.Stderr, level)
}

func newLogger(w io.Writer, level string) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          "fitsync",
		ReportTimestamp: true,
	})
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "fitsync", "config.json")
}

// LoadEnv loads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads config from disk and applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(GetConfigPath())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		EnvBackend:  &c.Backend,
		EnvDataDir:  &c.DataDir,
		EnvLogLevel: &c.LogLevel,
		EnvProfile:  &c.DefaultProfile,
	}
	for env, field := range overrides {
		if v := os.Getenv(env); v != "" {
			*field = v
		}
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
