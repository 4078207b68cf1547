// Package config loads service settings from defaults, an optional TOML or
// YAML file, a .env file and the environment, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	DBDriver        string        `toml:"db_driver" yaml:"db_driver"`
	DatabaseURL     string        `toml:"database_url" yaml:"database_url"`
	LogLevel        string        `toml:"log_level" yaml:"log_level"`
	LogFormat       string        `toml:"log_format" yaml:"log_format"`
	RequestTimeout  time.Duration `toml:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

func Default() *Config {
	return &Config{
		Addr:            ":8080",
		DBDriver:        DriverSQLite,
		DatabaseURL:     "./todo.db",
		LogLevel:        "info",
		LogFormat:       "text",
		RequestTimeout:  5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds the configuration for the current process. A missing .env or
// config file is not an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Default()

	path := os.Getenv("TODO_CONFIG")
	if path == "" {
		path = findConfigFile(".")
	}
	if path != "" {
		if err := LoadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile decodes a TOML or YAML file over cfg. Keys absent from the file keep
// their current values.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	return nil
}

func findConfigFile(dir string) string {
	for _, name := range []string{"todo.toml", "todo.yaml", "todo.yml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODO_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TODO_DB_DRIVER"); v != "" {
		cfg.DBDriver = v
	}
	if v := os.Getenv("TODO_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"TODO_REQUEST_TIMEOUT", &cfg.RequestTimeout},
		{"TODO_SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		v := os.Getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate normalises the driver name and rejects unusable settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "sqlite3":
		c.DBDriver = DriverSQLite
	case "pgx", "postgres", "postgresql":
		c.DBDriver = DriverPostgres
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return errors.New("database_url is required")
	}
	if c.Addr == "" {
		return errors.New("addr is required")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request_timeout must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown_timeout must be positive")
	}
	return nil
}
