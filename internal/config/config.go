// Package config centralizes application configuration into typed structs.
//
// Go Learning Note: Configuration Management
// Defaults live in NewDefaultConfig as struct literals. Load overlays an
// optional YAML file on top, and cmd/server applies command-line flags last, so
// the precedence is defaults < file < flags/env.
//
// Using typed structs (not raw strings/maps) gives you compile-time safety
// and IDE autocompletion.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"devicemap/internal/geo"
)

// DefaultPath is the config file read when none is given explicitly. It may
// be absent.
const DefaultPath = "config.yaml"

// Store drivers.
const (
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config is the top-level configuration container.
//
// Go Learning Note: Struct Composition
// Config "has a" ServerConfig, StoreConfig and GeoConfig. Go composes
// structs instead of inheriting from them.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Geo    GeoConfig    `yaml:"geo"`
}

// ServerConfig holds HTTP server settings.
//
// Go Learning Note: time.Duration
// yaml.v3 decodes strings like "10s" into time.Duration fields, so the file
// stays readable and the code never guesses units.
type ServerConfig struct {
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// StoreConfig selects and configures the device repository.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "file" or "memory"
	Path   string `yaml:"path"`   // devices file, file driver only
	Seed   bool   `yaml:"seed"`   // write demo devices into a missing file
}

// GeoConfig controls geohash precision and spatial query limits. Precision 9
// is roughly a 5 m cell.
type GeoConfig struct {
	DefaultPrecision int `yaml:"defaultPrecision"`
	MaxNearest       int `yaml:"maxNearest"`
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":5000",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Store: StoreConfig{
			Driver: StoreFile,
			Path:   "data/devices.json",
			Seed:   true,
		},
		Geo: GeoConfig{
			DefaultPrecision: geo.DefaultPrecision,
			MaxNearest:       50,
		},
	}
}

// Load returns the defaults overlaid with the YAML file at path. A missing
// file is only an error when path is not DefaultPath.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case StoreFile:
		if c.Store.Path == "" {
			return errors.New("store.path is required for the file driver")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if !geo.ValidPrecision(c.Geo.DefaultPrecision) {
		return fmt.Errorf("geo.defaultPrecision %d: %w", c.Geo.DefaultPrecision, geo.ErrInvalidPrecision)
	}
	if c.Geo.MaxNearest < 1 {
		return fmt.Errorf("geo.maxNearest must be positive, got %d", c.Geo.MaxNearest)
	}
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	return nil
}
