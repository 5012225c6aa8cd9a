package config

import (
	"fmt"
	"strings"

	"creeper-desktop/internal/logging"
)

// Normalize fills empty fields with defaults and rejects invalid values.
func Normalize(cfg Settings) (Settings, error) {
	def := DefaultSettings()
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = def.Server.Addr
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if _, _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return cfg, fmt.Errorf("log.level: %w", err)
	}
	cfg.Window.Backend = strings.ToLower(cfg.Window.Backend)
	switch cfg.Window.Backend {
	case "":
		cfg.Window.Backend = def.Window.Backend
	case BackendMemory, BackendAppleScript:
	default:
		return cfg, fmt.Errorf("window.backend must be %q or %q, got %q", BackendMemory, BackendAppleScript, cfg.Window.Backend)
	}
	if cfg.Window.AppName == "" {
		cfg.Window.AppName = def.Window.AppName
	}
	return cfg, nil
}
