// Package config loads the netedit configuration from TOML.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/netedit/pkg/errors"
)

//go:embed default.toml
var defaultConf []byte

// WireModes lists the accepted wire bend mode names in cycling order.
var WireModes = []string{"h-v", "v-h", "90-45", "45-90", "straight"}

// LogLevels lists the accepted log levels.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is the complete netedit configuration.
type Config struct {
	Editor  EditorConfig  `toml:"editor"`
	Circuit CircuitConfig `toml:"circuit"`
	Log     LogConfig     `toml:"log"`
}

// EditorConfig controls cursor handling of the interactive tools.
type EditorConfig struct {
	GridInterval  int64  `toml:"grid_interval"`
	SnapTolerance int64  `toml:"snap_tolerance"`
	WireMode      string `toml:"wire_mode"`
}

// CircuitConfig controls how new net signals are created.
type CircuitConfig struct {
	DefaultNetClass string `toml:"default_net_class"`
	AutoNamePrefix  string `toml:"auto_name_prefix"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration embedded in the binary.
func Default() *Config {
	var cfg Config
	if err := toml.Unmarshal(defaultConf, &cfg); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &cfg
}

// Load reads a TOML file on top of the defaults and validates the result.
// Keys missing from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config %s", path)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config key %q in %s", undec[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteDefault writes the embedded default configuration to path.
// It refuses to overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.New(errors.ErrCodeInvalidInput, "config file already exists at %s", path)
	}
	if err := os.WriteFile(path, defaultConf, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Editor.GridInterval <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "editor.grid_interval must be positive, got %d", c.Editor.GridInterval)
	}
	if c.Editor.SnapTolerance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "editor.snap_tolerance must not be negative")
	}
	if !slices.Contains(WireModes, c.Editor.WireMode) {
		return errors.New(errors.ErrCodeInvalidInput, "editor.wire_mode %q is not one of %v", c.Editor.WireMode, WireModes)
	}
	if err := errors.ValidateNetName(c.Circuit.DefaultNetClass); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "circuit.default_net_class")
	}
	if err := errors.ValidateNamePrefix(c.Circuit.AutoNamePrefix); err != nil {
		return err
	}
	if !slices.Contains(LogLevels, c.Log.Level) {
		return errors.New(errors.ErrCodeInvalidInput, "log.level %q is not one of %v", c.Log.Level, LogLevels)
	}
	return nil
}
