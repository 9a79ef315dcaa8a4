package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath returns the explicit path when given, otherwise the XDG config
// location for voxnote.
func ResolvePath(explicit string) (string, error) {
	if strings.TrimSpace(explicit) != "" {
		return explicit, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, "voxnote", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for config: %w", err)
	}
	return filepath.Join(home, ".config", "voxnote", "config.yaml"), nil
}

// ResolveStorePath returns the configured store path, or the XDG state
// location when the config leaves it empty.
func ResolveStorePath(configured string) (string, error) {
	if strings.TrimSpace(configured) != "" {
		return configured, nil
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "voxnote", "projects.db"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory for store: %w", err)
	}
	return filepath.Join(home, ".local", "state", "voxnote", "projects.db"), nil
}
