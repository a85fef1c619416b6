// Package xdg resolves XDG Base Directory paths for authgate.
// Non-secret settings live under the config dir; the file storage backend
// keeps its session map under the state dir.
package xdg

import (
	"os"
	"path/filepath"
)

// AppDir is the directory name used under every XDG base.
const AppDir = "authgate"

// ConfigDir returns $XDG_CONFIG_HOME/authgate (default ~/.config/authgate),
// creating it with 0700 if missing.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/authgate (default ~/.local/state/authgate),
// creating it with 0700 if missing.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, AppDir)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
