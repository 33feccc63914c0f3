package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "surftabs"

// ConfigDir and DataDir resolve the per-user directories. They are variables
// so tests can point them at a temp dir.
var (
	ConfigDir = func() (string, error) { return userDir("XDG_CONFIG_HOME", ".config") }
	DataDir   = func() (string, error) { return userDir("XDG_DATA_HOME", filepath.Join(".local", "share")) }
)

func userDir(xdgEnv, fallback string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home dir: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", appName), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, appName), nil
		}
		return filepath.Join(home, "."+appName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	return filepath.Join(home, fallback, appName), nil
}

// DefaultPath is the config file used when --config is not given.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}
