package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	if c.Physics.Step <= 0 {
		return fmt.Errorf("physics.step must be positive, got %v", c.Physics.Step)
	}
	if c.Physics.CapsuleRadius <= 0 {
		return fmt.Errorf("physics.capsule_radius must be positive, got %v", c.Physics.CapsuleRadius)
	}
	if c.Physics.CapsuleHeight < c.Physics.CapsuleRadius {
		return fmt.Errorf("physics.capsule_height %v is below the radius %v", c.Physics.CapsuleHeight, c.Physics.CapsuleRadius)
	}
	if c.Camera.Zoom <= 0 {
		return fmt.Errorf("camera.zoom must be positive, got %v", c.Camera.Zoom)
	}
	if c.Graphics.Theme != "light" && c.Graphics.Theme != "dark" {
		return fmt.Errorf("graphics.theme must be light or dark, got %q", c.Graphics.Theme)
	}
	if c.World.Asset == "" {
		return fmt.Errorf("world.asset is required")
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Parkwalk")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Parkwalk")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "parkwalk")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "parkwalk")
	}
}

// loadFromFile merges a YAML file over the existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
