// Package config loads the application-level configuration for the payroll
// engine's server and CLI entry points: which store backend to use, where
// tax tables live, and how to log. It deliberately does not touch the
// statutory parameter tables themselves; internal/params owns those.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// StoreBackend selects which internal/store implementation to wire up.
type StoreBackend string

const (
	BackendMemory   StoreBackend = "memory"
	BackendPostgres StoreBackend = "postgres"
)

// Config is the top-level application configuration, loaded from a single
// YAML file passed via --config.
type Config struct {
	TaxTableDir string       `yaml:"tax_table_dir"`
	Store       StoreBackend `yaml:"store"`
	PostgresDSN string       `yaml:"postgres_dsn,omitempty"`
	HTTPAddr    string       `yaml:"http_addr,omitempty"`
	LogLevel    string       `yaml:"log_level"`
}

// Default returns a Config suitable for local development: in-memory store,
// bundled tax tables, info-level logging.
func Default() Config {
	return Config{
		TaxTableDir: "config/tax_tables",
		Store:       BackendMemory,
		HTTPAddr:    ":8080",
		LogLevel:    "info",
	}
}

// Load reads and validates a YAML configuration file, falling back to
// Default for any field left unset in the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate enforces the minimal invariants a misconfigured deployment would
// otherwise fail on only after startup is well underway.
func (c Config) Validate() error {
	if c.TaxTableDir == "" {
		return fmt.Errorf("tax_table_dir is required")
	}
	if c.Store != BackendMemory && c.Store != BackendPostgres {
		return fmt.Errorf("store must be %q or %q, got %q", BackendMemory, BackendPostgres, c.Store)
	}
	if c.Store == BackendPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("postgres_dsn is required when store is %q", BackendPostgres)
	}
	return nil
}
