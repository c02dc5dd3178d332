package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Institution InstitutionConfig `yaml:"institution"`
	Database    DatabaseConfig    `yaml:"database"`
	Matching    MatchingConfig    `yaml:"matching"`
	Log         LogConfig         `yaml:"log"`
	Rooms       []RoomConfig      `yaml:"rooms"`
}

// InstitutionConfig describes the institution whose rooms are booked and the
// limits the front end applies before a request reaches the ledger.
type InstitutionConfig struct {
	Name                string `yaml:"name"`
	OpeningTime         string `yaml:"opening_time"`
	ClosingTime         string `yaml:"closing_time"`
	MaxDurationHours    int    `yaml:"max_duration_hours"`
	MaxComputerCapacity int    `yaml:"max_computer_capacity"`
}

// DatabaseConfig holds the storage configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // sqlite or postgres
	Dir                    string `yaml:"dir"`    // sqlite only
	DSN                    string `yaml:"dsn"`    // postgres only
	LogLevel               string `yaml:"log_level"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// MatchingConfig controls room allocation.
type MatchingConfig struct {
	OverlapPolicy string `yaml:"overlap_policy"`
}

// LogConfig controls the application logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// RoomConfig is one entry of a catalog override.
type RoomConfig struct {
	Number           int  `yaml:"number"`
	ComputerCapacity int  `yaml:"computer_capacity"`
	BreakoutCapacity int  `yaml:"breakout_capacity"`
	Printer          bool `yaml:"printer"`
	Smartboard       bool `yaml:"smartboard"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	// The zero value always passes applyDefaults.
	_ = cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() error {
	cfg.Institution.Name = strings.TrimSpace(cfg.Institution.Name)
	if cfg.Institution.Name == "" {
		cfg.Institution.Name = "Stirling"
	}
	if cfg.Institution.OpeningTime == "" {
		cfg.Institution.OpeningTime = "09:00:00"
	}
	if cfg.Institution.ClosingTime == "" {
		cfg.Institution.ClosingTime = "18:00:00"
	}
	if cfg.Institution.MaxDurationHours <= 0 {
		cfg.Institution.MaxDurationHours = 6
	}
	if cfg.Institution.MaxComputerCapacity <= 0 {
		cfg.Institution.MaxComputerCapacity = 20
	}

	switch cfg.Database.Driver {
	case "":
		cfg.Database.Driver = "sqlite"
	case "sqlite":
	case "postgres":
		if cfg.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q", cfg.Database.Driver)
	}
	if cfg.Database.Dir == "" {
		cfg.Database.Dir = "."
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "silent"
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 1
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 1
	}

	if cfg.Matching.OverlapPolicy == "" {
		cfg.Matching.OverlapPolicy = "legacy"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return nil
}
