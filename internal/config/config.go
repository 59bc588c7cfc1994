// Package config loads settings from defaults, an optional TOML file,
// an optional .env file and the environment, in that order of precedence
// (later wins). Command-line flags are applied on top by each command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Storage  StorageConfig  `toml:"storage"`
	Glossary GlossaryConfig `toml:"glossary"`
	Logging  LoggingConfig  `toml:"logging"`
	HTTP     HTTPConfig     `toml:"http"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig points at the SQLite database
type StorageConfig struct {
	Path string `toml:"path"`
}

// GlossaryConfig seeds a fresh glossary and bounds imports
type GlossaryConfig struct {
	Version        string `toml:"version"`
	Editor         string `toml:"editor"`
	MaxImportBytes int64  `toml:"max_import_bytes"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // console or json
}

// HTTPConfig holds middleware settings
type HTTPConfig struct {
	RatePerMinute  int      `toml:"rate_per_minute"` // 0 disables rate limiting
	AllowedOrigins []string `toml:"allowed_origins"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Path: "./termforge.db"},
		Glossary: GlossaryConfig{
			Version:        "14.15",
			MaxImportBytes: 10 << 20,
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		HTTP: HTTPConfig{
			RatePerMinute:  300,
			AllowedOrigins: []string{"http://localhost:*"},
		},
	}
}

// Load builds the configuration. path may be empty, in which case
// TERMFORGE_CONFIG is consulted; a missing .env file is not an error.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("TERMFORGE_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if err := envInt("PORT", &c.Server.Port); err != nil {
		return err
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("GLOSSARY_VERSION"); v != "" {
		c.Glossary.Version = v
	}
	if v := os.Getenv("GLOSSARY_EDITOR"); v != "" {
		c.Glossary.Editor = v
	}
	if v := os.Getenv("MAX_IMPORT_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MAX_IMPORT_BYTES=%q: %w", v, err)
		}
		c.Glossary.MaxImportBytes = n
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if err := envInt("RATE_LIMIT_PER_MINUTE", &c.HTTP.RatePerMinute); err != nil {
		return err
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.HTTP.AllowedOrigins = splitList(v)
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks every setting and reports all problems at once
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("port (%d) must be 1-65535", c.Server.Port))
	}
	if c.Storage.Path == "" {
		errs = append(errs, "storage path is required")
	}
	if c.Glossary.Version == "" {
		errs = append(errs, "glossary version is required")
	}
	if c.Glossary.MaxImportBytes <= 0 {
		errs = append(errs, "max import bytes must be positive")
	}
	if c.HTTP.RatePerMinute < 0 {
		errs = append(errs, "rate per minute must not be negative")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log level (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		errs = append(errs, fmt.Sprintf("log format (%q) must be one of: console, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Addr returns the listen address in host:port form
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
