// Package config loads calculator settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds settings read from CALC_* environment variables.
// Command-line flags override these.
type Config struct {
	DBPath   string     `env:"CALC_DB"`
	Session  string     `env:"CALC_SESSION"   envDefault:"default"`
	LogLevel slog.Level `env:"CALC_LOG_LEVEL" envDefault:"info"`
	Units    string     `env:"CALC_UNITS"`
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the environment configuration. An unset CALC_DB resolves to
// DefaultDBPath.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Session == "" {
		return Config{}, fmt.Errorf("parse env: CALC_SESSION must not be empty")
	}
	if cfg.DBPath == "" {
		path, err := DefaultDBPath()
		if err != nil {
			return Config{}, err
		}
		cfg.DBPath = path
	}
	return cfg, nil
}

// DefaultDBPath returns ~/.cloudycalc/calc.db.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cloudycalc", "calc.db"), nil
}
