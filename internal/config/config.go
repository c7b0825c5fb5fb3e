// Package config manages the jose configuration file.
//
// Configuration lives at ~/.config/jose/config.yaml (or the OS equivalent
// of the user config directory). A missing file yields defaults; saving
// creates the directory on demand.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gpt-5-codex"

// configDirName is the subdirectory under the user config directory.
const configDirName = "jose"

// configFileName is the configuration file name.
const configFileName = "config.yaml"

// Config is the persisted jose configuration.
type Config struct {
	// DefaultModel is the model used when --model is not given.
	DefaultModel string `yaml:"defaultModel"`
}

// DefaultConfig returns the configuration defaults.
func DefaultConfig() *Config {
	return &Config{DefaultModel: DefaultModel}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(configDir, configDirName, configFileName), nil
}

// Load reads the configuration from the given path. A missing file yields
// defaults; a malformed file is an error so typos don't silently reset the
// configuration.
func Load(path string) (*Config, error) {
	// #nosec G304 -- the path comes from DefaultPath or tests, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.DefaultModel == "" {
		cfg.DefaultModel = DefaultModel
	}

	return cfg, nil
}

// Save writes the configuration to the given path, creating the parent
// directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
