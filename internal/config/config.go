// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/speak-out/internal/types"
)

// Defaults applied by MergeWithDefaults.
const (
	DefaultPort         = 8080
	DefaultWorkers      = 8
	DefaultLogLevel     = "info"
	DefaultAuditTimeout = 5 * time.Second
)

// Config represents settings that can be loaded from a JSON file and
// overridden by environment variables.
type Config struct {
	DatabaseURL   string       `json:"database_url,omitempty"`                                                                                   // PostgreSQL connection URL
	Port          int          `json:"port,omitempty" validate:"gte=0,lte=65535"`                                                                // HTTP listen port
	DefaultTone   types.Tone   `json:"default_tone,omitempty" validate:"omitempty,oneof=formal passionate direct hopeful empathetic optimistic"` // Tone used when a request leaves it blank
	DefaultStance types.Stance `json:"default_stance,omitempty" validate:"omitempty,oneof=support oppose neutral concerned"`                     // Stance used when a request leaves it blank
	Workers       int          `json:"workers,omitempty" validate:"gte=0,lte=256"`                                                               // Parallel letter composition limit
	LogLevel      string       `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`                                     // zap level
	AuditTimeout  Duration     `json:"audit_timeout,omitempty"`                                                                                  // Budget for one audit log write
}

// Duration is a time.Duration that unmarshals from strings like "5s".
type Duration time.Duration

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load reads the optional config file, applies environment overrides and
// fills defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:          DefaultPort,
		DefaultTone:   types.DefaultTone,
		DefaultStance: types.DefaultStance,
		Workers:       DefaultWorkers,
		LogLevel:      DefaultLogLevel,
		AuditTimeout:  Duration(DefaultAuditTimeout),
	}
}

// ApplyEnv overrides fields from DATABASE_URL, PORT, DEFAULT_TONE,
// DEFAULT_STANCE, WORKERS, LOG_LEVEL and AUDIT_TIMEOUT when they are set.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("DEFAULT_TONE"); v != "" {
		c.DefaultTone = types.Tone(v)
	}
	if v := os.Getenv("DEFAULT_STANCE"); v != "" {
		c.DefaultStance = types.Stance(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("WORKERS"); v != "" {
		workers, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid WORKERS: %v", err)
		}
		c.Workers = workers
	}
	if v := os.Getenv("AUDIT_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid AUDIT_TIMEOUT: %v", err)
		}
		c.AuditTimeout = Duration(timeout)
	}
	return nil
}

var validate = validator.New()

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if c.AuditTimeout < 0 {
		return fmt.Errorf("config error: 'audit_timeout' must be non-negative")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DefaultTone == "" {
		result.DefaultTone = defaults.DefaultTone
	}
	if result.DefaultStance == "" {
		result.DefaultStance = defaults.DefaultStance
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.AuditTimeout == 0 {
		result.AuditTimeout = defaults.AuditTimeout
	}

	return result
}
