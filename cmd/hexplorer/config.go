package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds display preferences, loaded from ~/.hexplorer.yaml when
// present. Command line flags override file values.
type Config struct {
	BytesPerRow int    `yaml:"bytes_per_row"`
	GapFill     uint8  `yaml:"gap_fill"`
	Charset     string `yaml:"charset"`
	Endian      string `yaml:"endian"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		BytesPerRow: 16,
		GapFill:     0xFF,
		Charset:     "ascii",
		Endian:      "little",
	}
}

// DefaultConfigPath returns the per-user config location
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".hexplorer.yaml"
	}
	return filepath.Join(home, ".hexplorer.yaml")
}

// LoadConfig reads the YAML config at path on top of the defaults.
// A missing file is not an error; the defaults are returned as-is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Normalize folds unknown or out-of-range values back to their defaults
// so a bad config file degrades instead of breaking the layout.
func (c *Config) Normalize() {
	if c.BytesPerRow < 1 || c.BytesPerRow > 64 {
		c.BytesPerRow = 16
	}

	switch strings.ToLower(c.Charset) {
	case "cp1252", "windows1252", "windows-1252", "latin1":
		c.Charset = "cp1252"
	default:
		c.Charset = "ascii"
	}

	if strings.ToLower(c.Endian) == "big" {
		c.Endian = "big"
	} else {
		c.Endian = "little"
	}
}
