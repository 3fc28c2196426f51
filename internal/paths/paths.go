// Package paths resolves the per-user directories voidmm reads and writes.
package paths

import (
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppID names the application's data directory under the platform's local
// application data root.
const AppID = "me.ghoul.void_mod_manager"

// AppName names the configuration directory.
const AppName = "voidmm"

// ErrNoDataDir is returned when the platform data directory is unknown.
var ErrNoDataDir = errors.New("could not resolve local application data directory")

// DataDir returns <local-app-data>/me.ghoul.void_mod_manager.
func DataDir() (string, error) {
	if xdg.DataHome == "" {
		return "", ErrNoDataDir
	}
	return filepath.Join(xdg.DataHome, AppID), nil
}

// DownloadsDir returns the directory downloaded archives are written to.
// The directory is not created.
func DownloadsDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "downloads"), nil
}

// ConfigDir returns <user-config>/voidmm.
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ConfigFile returns the user-level config file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// TracesFile returns the default JSONL trace output path.
func TracesFile() string {
	return filepath.Join(ConfigDir(), "traces", "traces.jsonl")
}

// ResolveDir returns override when set, otherwise the result of fallback.
// A leading ~ in override is left untouched; callers expand it beforehand.
func ResolveDir(override string, fallback func() (string, error)) (string, error) {
	if override != "" {
		return filepath.Clean(override), nil
	}
	return fallback()
}
