// Package config loads the optional YAML configuration file accepted by
// the tinycplus CLI via --config.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config holds every setting the compiler pipeline reads outside of its
// command-line flags. Its zero value is a blank struct, not Default's
// values (empty reserved prefix and entry function, zero inheritance
// depth).
type Config struct {
	ReservedPrefix      string `yaml:"reservedPrefix"`
	ColorOutput         bool   `yaml:"colorOutput"`
	EntryFunction       string `yaml:"entryFunction"`
	MaxInheritanceDepth int    `yaml:"maxInheritanceDepth"`
}

// Default returns the compiler's built-in defaults.
func Default() Config {
	return Config{
		ReservedPrefix:      "__tinycpp__",
		ColorOutput:         false,
		EntryFunction:       "main",
		MaxInheritanceDepth: 64,
	}
}

// Load reads and parses a YAML config file, starting from Default and
// overriding only the fields present in the file.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.MaxInheritanceDepth <= 0 {
		return cfg, fmt.Errorf("config %s: maxInheritanceDepth must be positive, got %d", path, cfg.MaxInheritanceDepth)
	}
	return cfg, nil
}
