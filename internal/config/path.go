package config

import (
	"os"
	"path/filepath"
)

// DefaultPath returns ~/.config/creeper-desktop/settings.toml (or a cwd fallback).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "creeper-desktop", "settings.toml")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, "creeper-desktop-settings.toml")
}
