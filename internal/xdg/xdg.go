// Package xdg resolves XDG Base Directory paths for the harmonizer CLI.
// Directories fall back to the conventional locations under the user's home
// when the XDG environment variables are unset, and are created private (0700).
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the per-application directory name under each XDG base.
const AppName = "harmonizer"

// ConfigDir returns the config directory, creating it if missing.
// It falls back to ~/.config/harmonizer when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return appDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the state directory used for pulled schemas and history.
// It falls back to ~/.local/state/harmonizer when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return appDir("XDG_STATE_HOME", ".local", "state")
}

// ConfigFile returns the path of the YAML config file. The file may not exist.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func appDir(env string, fallback ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
