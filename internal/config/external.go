package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// resolveExternalPath returns path as-is if absolute, otherwise joins it with root.
func resolveExternalPath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// loadDefaultsFile reads DefaultsFile and layers its values over Defaults.
// Keys set inline in the main config are applied first, so the external
// file wins for any key it repeats.
func (c *Config) loadDefaultsFile(root string) error {
	path := strings.TrimSpace(c.DefaultsFile)
	if path == "" {
		return nil
	}
	absPath := resolveExternalPath(root, path)
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("load defaults file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c.Defaults); err != nil {
		return fmt.Errorf("parse defaults file %q: %w", path, err)
	}
	return nil
}
