// Package paths resolves where formsmith keeps its configuration and its
// sqlite data.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// appName is the directory created under the platform config location.
const appName = "formsmith"

// DefaultDataDirName is the data directory created under the working
// directory when nothing else is configured.
const DefaultDataDirName = ".formsmith-db"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "FORMSMITH_CONFIG_DIR"
	EnvDataDir   = "FORMSMITH_DATA_DIR"
)

// platformDir holds platform lookups that tests can override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/formsmith (fallback ~/.config/formsmith)
// macOS:   ~/Library/Application Support/formsmith
// Windows: %APPDATA%/formsmith
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > FORMSMITH_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return absolute(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return absolute(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > configYAMLValue > FORMSMITH_DATA_DIR > $(CWD)/.formsmith-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, candidate := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if strings.TrimSpace(candidate) != "" {
			return absolute(candidate)
		}
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ExpandHome replaces a leading "~" with the user's home directory. Other
// paths are returned unchanged.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

func absolute(path string) (string, error) {
	expanded, err := ExpandHome(strings.TrimSpace(path))
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}
