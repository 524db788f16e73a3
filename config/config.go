// Package config loads the roster service configuration.
//
// Precedence, lowest first: DefaultConfig, the YAML file, then environment
// variables (a .env file in the working directory is loaded first when
// present; real environment variables win over it).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/warp/roster-engine/roster"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvPort          = "ROSTER_PORT"
	EnvDB            = "ROSTER_DB"
	EnvLogLevel      = "ROSTER_LOG_LEVEL"
	EnvMinRestHours  = "ROSTER_MIN_REST_HOURS"
	EnvSweepInterval = "ROSTER_SWEEP_INTERVAL"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
	Audit    AuditConfig    `yaml:"audit"`
	Sweeper  SweeperConfig  `yaml:"sweeper"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	// Path is the SQLite file; ":memory:" keeps everything in process.
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or console
}

// AuditConfig holds the defaults applied when a request names no thresholds.
type AuditConfig struct {
	MinRestHours     float64 `yaml:"min_rest_hours"`
	EquityGapPercent float64 `yaml:"equity_gap_percent"`
}

type SweeperConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "roster.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Audit: AuditConfig{
			MinRestHours:     12,
			EquityGapPercent: 20,
		},
		Sweeper: SweeperConfig{
			Enabled:     true,
			Interval:    time.Hour,
			Concurrency: 4,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty or the file
// does not exist), applies environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvMinRestHours); v != "" {
		hours, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMinRestHours, err)
		}
		c.Audit.MinRestHours = hours
	}
	if v := os.Getenv(EnvSweepInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSweepInterval, err)
		}
		c.Sweeper.Interval = d
	}
	return nil
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if _, err := zap.ParseAtomicLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format %q must be json or console", c.Logging.Format)
	}
	if c.Audit.MinRestHours <= 0 {
		return fmt.Errorf("audit.min_rest_hours must be positive")
	}
	if c.Audit.EquityGapPercent <= 0 {
		return fmt.Errorf("audit.equity_gap_percent must be positive")
	}
	if c.Sweeper.Enabled {
		if c.Sweeper.Interval <= 0 {
			return fmt.Errorf("sweeper.interval must be positive")
		}
		if c.Sweeper.Concurrency <= 0 {
			return fmt.Errorf("sweeper.concurrency must be positive")
		}
	}
	return nil
}

// AuditOptions converts the audit defaults for the engine.
func (c *Config) AuditOptions() roster.AuditOptions {
	return roster.AuditOptions{
		MinRestHours:     decimal.NewFromFloat(c.Audit.MinRestHours),
		EquityGapPercent: decimal.NewFromFloat(c.Audit.EquityGapPercent),
	}
}

// NewLogger builds the zap logger described by the logging section.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}

	zc := zap.NewProductionConfig()
	if c.Logging.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}
