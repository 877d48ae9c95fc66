// Package config loads the emotived daemon configuration from a YAML file,
// with environment-variable overrides for deployment knobs. Core formula
// constants are not configurable; only the serving surface and policy
// thresholds live here.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// #region types

// Config holds all emotived configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Registry RegistryConfig `yaml:"registry"`
	Gate     GateConfig     `yaml:"gate"`
	Asset    AssetConfig    `yaml:"asset"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig configures the gRPC listener.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// DatabaseConfig configures the SQLite record store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// RegistryConfig names the authority recorded on the aggregate counter row.
type RegistryConfig struct {
	Authority string `yaml:"authority"`
}

// GateConfig holds the transfer gate threshold.
type GateConfig struct {
	// MaxTransferArousal is exclusive: transfers require arousal strictly
	// below it.
	MaxTransferArousal float32 `yaml:"max_transfer_arousal"`
}

// AssetConfig holds mint/update policy thresholds.
type AssetConfig struct {
	MinConfidence float32 `yaml:"min_confidence"`
}

// LoggingConfig selects the daemon log level.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// #endregion types

// #region defaults

// DefaultConfig returns the standard daemon configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:   ServerConfig{Listen: "localhost:50061"},
		Database: DatabaseConfig{Path: "emotive.db"},
		Registry: RegistryConfig{Authority: ""},
		Gate:     GateConfig{MaxTransferArousal: 0.7},
		Asset:    AssetConfig{MinConfidence: 0},
		Logging:  LoggingConfig{Level: "info"},
	}
}

// #endregion defaults

// #region load

// Load reads a YAML config file over the defaults. A missing file is not an
// error; the defaults plus environment overrides apply. An empty path skips
// the file read entirely.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployment environments override file values
// without editing the file.
func (c *Config) applyEnvOverrides() {
	c.Server.Listen = envOr("EMOTIVE_LISTEN", c.Server.Listen)
	c.Database.Path = envOr("EMOTIVE_DB", c.Database.Path)
	c.Registry.Authority = envOr("EMOTIVE_AUTHORITY", c.Registry.Authority)
	c.Logging.Level = envOr("EMOTIVE_LOG_LEVEL", c.Logging.Level)
	if v := os.Getenv("EMOTIVE_MAX_TRANSFER_AROUSAL"); v != "" {
		if f, err := strconv.ParseFloat(v, 32); err == nil {
			c.Gate.MaxTransferArousal = float32(f)
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// #endregion load

// #region validate

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("config: server.listen required")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("config: database.path required")
	}
	if c.Gate.MaxTransferArousal <= 0 || c.Gate.MaxTransferArousal > 1 {
		return fmt.Errorf("config: gate.max_transfer_arousal %v outside (0, 1]", c.Gate.MaxTransferArousal)
	}
	if c.Asset.MinConfidence < 0 || c.Asset.MinConfidence > 1 {
		return fmt.Errorf("config: asset.min_confidence %v outside [0, 1]", c.Asset.MinConfidence)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging.level %q", c.Logging.Level)
	}
	return nil
}

// #endregion validate
