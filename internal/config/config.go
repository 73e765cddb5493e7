package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime configuration parameters
type Config struct {
	URLs             []string `json:"urls"`
	OutputDir        string   `json:"output_dir"`
	UserAgent        string   `json:"user_agent"`
	Workers          int      `json:"workers"`
	RequestTimeoutMs int      `json:"request_timeout_ms"`
	DBPath           string   `json:"db_path"`
	MetricsPath      string   `json:"metrics_path"`
	LogLevel         string   `json:"log_level"`
}

// MissingKeyError reports a Lookup against a key the configuration
// table does not define.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("config key not found: %s", e.Key)
}

// LoadConfig reads and validates configuration from a JSON file
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	var cfg Config
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Apply defaults for missing values
	applyDefaults(&cfg)

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for unspecified fields
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "scraped"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "pagereaper/0.3 (+https://github.com/afantini/pagereaper)"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 3
	}
	if cfg.RequestTimeoutMs == 0 {
		cfg.RequestTimeoutMs = 5000
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "pagereaper.db"
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "metrics.log"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// validate checks that required fields are present and values are sensible
func validate(cfg *Config) error {
	if len(cfg.URLs) == 0 {
		return fmt.Errorf("urls is required and must not be empty")
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	if cfg.RequestTimeoutMs < 1000 {
		return fmt.Errorf("request_timeout_ms must be >= 1000")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	return nil
}

// Lookup exposes the scalar settings as a key/value table.
// A key the table does not define fails with MissingKeyError, never a default.
func (cfg *Config) Lookup(key string) (string, error) {
	switch key {
	case "output_dir":
		return cfg.OutputDir, nil
	case "user_agent":
		return cfg.UserAgent, nil
	case "workers":
		return strconv.Itoa(cfg.Workers), nil
	case "request_timeout_ms":
		return strconv.Itoa(cfg.RequestTimeoutMs), nil
	case "db_path":
		return cfg.DBPath, nil
	case "metrics_path":
		return cfg.MetricsPath, nil
	case "log_level":
		return cfg.LogLevel, nil
	default:
		return "", &MissingKeyError{Key: key}
	}
}
