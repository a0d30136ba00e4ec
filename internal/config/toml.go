// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Account AccountConfig `toml:"account"`
	Stats   StatsConfig   `toml:"stats"`
	Log     LogConfig     `toml:"log"`
}

// AccountConfig selects the signed-in identity. An empty user means guest.
type AccountConfig struct {
	User *string `toml:"user"`
}

// StatsConfig maps stats-related settings.
type StatsConfig struct {
	Lang        *string `toml:"lang"`
	Duration    *string `toml:"duration"`
	TextType    *string `toml:"text-type"`
	Layout      *string `toml:"layout"`
	Format      *string `toml:"format"`
	CurveWindow *int    `toml:"curve-window"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
