package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/cpp-actions/config.yml
// - macOS: ~/Library/Application Support/cpp-actions/config.yml
// - Windows: %APPDATA%\cpp-actions\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "cpp-actions"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// relative to the current directory.
func ProjectConfigPath() string {
	return ".cpp-actions.yml"
}

// ProjectJSONConfigPath returns the JSON alternative to ProjectConfigPath.
func ProjectJSONConfigPath() string {
	return ".cpp-actions.json"
}
