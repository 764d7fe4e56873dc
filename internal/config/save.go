package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserPath is the config file in the user's config directory.
func UserPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// SavePreferences writes the player's mute and theme toggles to the user
// config file. Other settings in that file are kept as they are.
func SavePreferences(muted bool, theme string) error {
	return savePreferences(UserPath(), muted, theme)
}

func savePreferences(path string, muted bool, theme string) error {
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	cfg.Audio.Muted = muted
	cfg.Graphics.Theme = theme
	return cfg.SaveTo(path)
}

// SaveTo writes the config to a specific path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
