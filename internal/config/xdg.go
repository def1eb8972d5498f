// Package config provides XDG path helpers.
package config

import (
	"os"
	"path/filepath"
)

const appDir = "aura"

// DBPathEnv overrides the history database location.
const DBPathEnv = "AURA_DB"

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	return xdgHome("XDG_CONFIG_HOME", ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	return xdgHome("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgHome(env, fallback string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, fallback)
}

// DefaultDBPath returns the SQLite history path, honoring AURA_DB.
func DefaultDBPath() string {
	if v := os.Getenv(DBPathEnv); v != "" {
		return v
	}
	return filepath.Join(XDGDataHome(), appDir, "aura.db")
}

// DefaultDebugLogPath is where the pad writes debug logs while it owns the terminal.
func DefaultDebugLogPath() string {
	return filepath.Join(XDGDataHome(), appDir, "debug.log")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), appDir, "config.toml")
}
