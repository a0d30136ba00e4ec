package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment.
// Unset variables stay nil so the file and defaults still apply.
type EnvConfig struct {
	User     *string `env:"MAXTYPE_USER"`
	DBPath   *string `env:"MAXTYPE_DB_PATH"`
	LocalDir *string `env:"MAXTYPE_LOCAL_DIR"`
	LogLevel *string `env:"MAXTYPE_LOG_LEVEL"`
}

// LoadEnv reads EnvConfig from the process environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := ParseEnv(&cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Paths are the resolved storage locations.
type Paths struct {
	DBPath   string
	LocalDir string
}

// ResolvePaths applies environment overrides to the XDG defaults.
func ResolvePaths(envCfg EnvConfig) Paths {
	paths := Paths{DBPath: DefaultDBPath(), LocalDir: DefaultLocalDir()}
	if v := envCfg.DBPath; v != nil && *v != "" {
		paths.DBPath = *v
	}
	if v := envCfg.LocalDir; v != nil && *v != "" {
		paths.LocalDir = *v
	}
	return paths
}

// Merge layers environment values over the file config. Environment wins.
func Merge(file FileConfig, envCfg EnvConfig) FileConfig {
	if envCfg.User != nil {
		file.Account.User = envCfg.User
	}
	if envCfg.LogLevel != nil {
		file.Log.Level = envCfg.LogLevel
	}
	return file
}
