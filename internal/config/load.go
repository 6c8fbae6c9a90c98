package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name searched for in standard locations.
const FileName = "cadconv.yaml"

// ErrInvalidTimeout is returned when a configured time budget is not positive.
var ErrInvalidTimeout = errors.New("timeout must be positive")

// Load loads configuration with priority: defaults < file < flags.
func Load(o Overrides) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := o.ConfigPath
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyOverrides(cfg, o)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would make every conversion fail.
func (c *Config) Validate() error {
	if c.Converter.SubprocessTimeout <= 0 {
		return fmt.Errorf("converter.subprocess_timeout: %w", ErrInvalidTimeout)
	}
	if c.Converter.ProbeTimeout <= 0 {
		return fmt.Errorf("converter.probe_timeout: %w", ErrInvalidTimeout)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
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
		return filepath.Join(home, "Library", "Application Support", "cadconv")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cadconv")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "cadconv")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cadconv")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
