// Package config loads the companion's process settings: where the HTTP
// surface listens, how loud logging is, and which window backend to drive.
// Runtime overrides set by the frontend are not stored here.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Window backends.
const (
	BackendMemory      = "memory"
	BackendAppleScript = "applescript"
)

// Environment overrides.
const (
	EnvAddr          = "CREEPER_ADDR"
	EnvLogLevel      = "CREEPER_LOG_LEVEL"
	EnvWindowBackend = "CREEPER_WINDOW_BACKEND"
)

var (
	// DefaultAddr is the loopback address the HTTP surface binds to.
	DefaultAddr = "127.0.0.1:7071"
	// DefaultAppName is the process name the window backend drives.
	DefaultAppName = "Creeper"
)

// Settings represents the process settings file.
type Settings struct {
	Server ServerSettings `toml:"server"`
	Log    LogSettings    `toml:"log"`
	Window WindowSettings `toml:"window"`
}

// ServerSettings holds the HTTP surface options.
type ServerSettings struct {
	Addr string `toml:"addr"`
}

// LogSettings holds logging options.
type LogSettings struct {
	Level string `toml:"level"` // error, warn, info, debug, trace
}

// WindowSettings selects how window commands reach the host.
type WindowSettings struct {
	Backend     string `toml:"backend"`      // memory, applescript
	AppName     string `toml:"app_name"`     // process name for applescript
	StartHidden bool   `toml:"start_hidden"` // initial state of the memory window
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Addr: DefaultAddr},
		Log:    LogSettings{Level: "warn"},
		Window: WindowSettings{Backend: BackendMemory, AppName: DefaultAppName},
	}
}

// Load reads the settings file at path, fills gaps with defaults and applies
// environment overrides. A missing file is not an error.
func Load(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Settings{}, fmt.Errorf("read settings: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Settings{}, fmt.Errorf("parse settings %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return Normalize(cfg)
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func applyEnv(cfg *Settings) {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvWindowBackend); v != "" {
		cfg.Window.Backend = v
	}
}
