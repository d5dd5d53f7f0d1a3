package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// ConfigDir returns the XDG-compliant config directory for signcreds
// Typically ~/.config/signcreds/ on Linux
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, "signcreds")
}

// ConfigPath returns the full path to the user config file
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json5")
}

// DataDir returns the XDG-compliant data directory for signcreds
// Holds the file-backed keyring when no OS keyring is available
func DataDir() string {
	return filepath.Join(xdg.DataHome, "signcreds")
}

// ProjectPath returns the path of the per-project config file
func ProjectPath(projectDir string) string {
	return filepath.Join(projectDir, ProjectFileName)
}
