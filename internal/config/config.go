package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"

	defaultLogLevel = "error"
)

// StoreConfig selects where the calendar document lives.
type StoreConfig struct {
	// Backend is either "json" (a plain document on disk) or "sqlite".
	Backend string `yaml:"backend" env:"BACKEND"`
	// Path is the JSON file or SQLite database path. Empty selects the
	// backend's own default (schedule.json or schedule.db).
	Path string `yaml:"path,omitempty" env:"PATH"`
}

// Config is the top-level application configuration.
type Config struct {
	Store StoreConfig `yaml:"store" envPrefix:"STORE_"`

	// LogLevel is one of "debug", "info", "error".
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// EnvPrefix is prepended to every environment override, e.g.
// SCHED_STORE_PATH.
const EnvPrefix = "SCHED_"

func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendJSON,
		},
		LogLevel: defaultLogLevel,
	}
}

// Normalize fills in missing values so that partially-filled files still
// behave correctly.
func (c *Config) Normalize() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = BackendJSON
	}
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
}

// Validate rejects values Normalize cannot repair.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("unknown store backend %q (want %q or %q)", c.Store.Backend, BackendJSON, BackendSQLite)
	}
}

// Load builds the effective configuration.
//
// Behavior:
//   - path == "": start from DefaultConfig, no file is read or written
//   - path missing on disk: write DefaultConfig there with 0600 perms
//   - path present: unmarshal the YAML over the defaults
//
// Environment overrides (SCHED_*) are applied last, then the result is
// normalized and validated.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			if err := Save(path, cfg); err != nil {
				return nil, fmt.Errorf("write default config: %w", err)
			}
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Save writes the configuration atomically: temp file in the same
// directory, fsync, chmod 0600, rename.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".sched-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
