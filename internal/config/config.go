// Package config loads and validates the server configuration from a
// YAML/JSON file, environment variables, and defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes the helloserver runtime settings.
//
// Durations are kept as strings ("5s", "100ms") so they round-trip
// through YAML and the environment; use SleepDuration for the parsed
// value.
type Config struct {
	// Addr is the TCP listen address.
	Addr string `yaml:"addr" json:"addr"`

	// Workers is the fixed worker-pool size.
	Workers int `yaml:"workers" json:"workers"`

	// StaticDir is the directory the HTML pages are served from.
	StaticDir string `yaml:"static_dir" json:"static_dir"`

	// Sleep is the artificial delay applied to the /sleep route.
	Sleep string `yaml:"sleep" json:"sleep"`

	// RateLimit caps accepted connections per second. Zero disables
	// the limiter.
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit"`

	// RateBurst is the limiter burst size, used only when RateLimit
	// is set.
	RateBurst int `yaml:"rate_burst" json:"rate_burst"`

	// MetricsAddr, when set, exposes pool metrics for Prometheus
	// scraping on this address.
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
}

// Default returns the reference configuration: four workers serving on
// the loopback address, five-second /sleep delay.
func Default() Config {
	return Config{
		Addr:      "127.0.0.1:7878",
		Workers:   4,
		StaticDir: "web",
		Sleep:     "5s",
		RateBurst: 16,
	}
}

// LoadFile reads path and merges it over the defaults. The format is
// chosen by file extension (.yaml/.yml or .json).
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config format: %s", ext)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from HELLOSERVER_* environment variables.
// Unset variables leave the current values in place.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("HELLOSERVER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("HELLOSERVER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Workers = n
		}
	}
	if v := os.Getenv("HELLOSERVER_STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("HELLOSERVER_SLEEP"); v != "" {
		c.Sleep = v
	}
	if v := os.Getenv("HELLOSERVER_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
}

// SleepDuration parses the /sleep delay.
func (c Config) SleepDuration() (time.Duration, error) {
	if c.Sleep == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Sleep)
	if err != nil {
		return 0, fmt.Errorf("invalid sleep duration: %w", err)
	}
	return d, nil
}

// Validate checks the configuration for values the server cannot run
// with.
func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.StaticDir == "" {
		return fmt.Errorf("static_dir must not be empty")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate_limit must be non-negative")
	}
	if c.RateLimit > 0 && c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be at least 1 when rate_limit is set")
	}
	if _, err := c.SleepDuration(); err != nil {
		return err
	}
	return nil
}
