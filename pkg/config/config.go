// Package config handles workspace configuration for interaction-recorder.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the workspace configuration (config.yaml). Command-line
// flags override any value set here.
type Config struct {
	// Connection settings
	ServerURL  string `yaml:"serverUrl"`  // Appium server URL
	DeviceName string `yaml:"device"`     // Target device
	AppPackage string `yaml:"appPackage"` // App under test
	NoReset    *bool  `yaml:"noReset"`    // Keep app state across sessions (default true)

	// Capture settings
	PollIntervalMs int    `yaml:"pollIntervalMs"` // Gap between poll cycles
	OutputDir      string `yaml:"outputDir"`      // Where recordings are written

	// Replay settings
	EventDelayMs     int    `yaml:"eventDelayMs"`     // Settle time between replayed events
	ResolveTimeoutMs int    `yaml:"resolveTimeoutMs"` // Bounded wait per resolution strategy
	InputText        string `yaml:"inputText"`        // Placeholder for text_input replay

	// Logging
	LogFile string `yaml:"logFile"`
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}
