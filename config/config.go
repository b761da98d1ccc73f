package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/k1LoW/expand"
)

var (
	homePath       string
	configHomePath string
	stateHomePath  string
)

type Config struct {
	// Size and background of the slide canvas
	Canvas *Canvas `yaml:"canvas,omitempty" json:"canvas,omitempty"`
	// Name of the exported React component
	ComponentName string `yaml:"componentName,omitempty" json:"componentName,omitempty"`
	// Number of items rendered in parallel
	Concurrency int `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
	// Fallback background color of shapes
	FallbackBackground string `yaml:"fallbackBackground,omitempty" json:"fallbackBackground,omitempty"`
	// Conditions for rendering items
	Rules []Rule `yaml:"rules,omitempty" json:"rules,omitempty"`
	// command run after writing the component
	PostConvertCommand string `yaml:"postConvertCommand,omitempty" json:"postConvertCommand,omitempty"`
}

type Canvas struct {
	Width      int    `yaml:"width,omitempty" json:"width,omitempty"`
	Height     int    `yaml:"height,omitempty" json:"height,omitempty"`
	Background string `yaml:"background,omitempty" json:"background,omitempty"`
}

type Rule struct {
	If        string `json:"if"`                  // condition to check
	Skip      *bool  `json:"skip,omitempty"`      // whether to drop the item if condition is true
	ClassName string `json:"className,omitempty"` // class names to add if condition is true
}

func init() {
	var err error
	homePath, err = os.UserHomeDir()
	if err != nil {
		panic(fmt.Sprintf("failed to get home directory: %v", err))
	}
}

// Load loads the configuration from the config file.
// It searches for config files in the following order:
// 1. $XDG_CONFIG_HOME/slidejsx/config-{profile}.yml
// 2. $XDG_CONFIG_HOME/slidejsx/config.yml
// Environment variables in the file are expanded.
// If no config file is found, it returns an empty Config struct.
func Load(profile string) (*Config, error) {
	var configBasePaths []string
	if profile != "" {
		configBasePaths = append(configBasePaths, filepath.Join(configPath(), fmt.Sprintf("config-%s", profile)))
	}
	configBasePaths = append(configBasePaths, filepath.Join(configPath(), "config"))
	for _, basePath := range configBasePaths {
		for _, ext := range []string{".yml", ".yaml"} {
			configPath := basePath + ext
			if b, err := os.ReadFile(configPath); err == nil {
				return Parse(b)
			}
		}
	}
	// If no config file is found, return an empty config
	return &Config{}, nil
}

// Parse parses the YAML configuration b.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(expand.ExpandenvYAMLBytes(b), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("invalid concurrency: %d", cfg.Concurrency)
	}
	return cfg, nil
}

// configPath returns the path to the configuration directory.
func configPath() string {
	if configHomePath != "" {
		return configHomePath
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		configHomePath = filepath.Join(v, "slidejsx")
	} else {
		configHomePath = filepath.Join(homePath, ".config", "slidejsx")
	}
	return configHomePath
}

// ConfigHomePath returns the path to the configuration directory.
func ConfigHomePath() string {
	return configPath()
}

func StateHomePath() string {
	if stateHomePath != "" {
		return stateHomePath
	}
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		stateHomePath = filepath.Join(v, "slidejsx")
	} else {
		stateHomePath = filepath.Join(homePath, ".local", "state", "slidejsx")
	}
	return stateHomePath
}
