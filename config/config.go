// Package config handles tangerine.toml emulator configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents a tangerine.toml configuration file.
type Config struct {
	Binary BinaryConfig `toml:"binary"`
	Log    LogConfig    `toml:"log"`
	Dump   DumpConfig   `toml:"dump"`

	// Dir is the directory containing the tangerine.toml file (set at
	// load time).
	Dir string `toml:"-"`
}

// BinaryConfig locates the app binary to emulate.
type BinaryConfig struct {
	Path string `toml:"path"`
}

// LogConfig configures log output.
type LogConfig struct {
	Verbosity int `toml:"verbosity"`
}

// DumpConfig configures class-dump output.
type DumpConfig struct {
	Output string `toml:"output"`
}

// Load parses a tangerine.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "tangerine.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if c.Dump.Output == "" {
		c.Dump.Output = "classes.cbor"
	}

	return &c, nil
}

// FindAndLoad walks up from startDir to find a tangerine.toml file,
// then loads and returns the config. Returns nil if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "tangerine.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// BinaryPath returns the configured binary path resolved against the
// config file's directory.
func (c *Config) BinaryPath() string {
	if c.Binary.Path == "" || filepath.IsAbs(c.Binary.Path) {
		return c.Binary.Path
	}
	return filepath.Join(c.Dir, c.Binary.Path)
}

// DumpPath returns the configured dump output path resolved against
// the config file's directory.
func (c *Config) DumpPath() string {
	if filepath.IsAbs(c.Dump.Output) {
		return c.Dump.Output
	}
	return filepath.Join(c.Dir, c.Dump.Output)
}
