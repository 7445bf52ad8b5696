// Package config provides configuration management for the metro router.
//
// Values come from three layers, later ones winning:
//  1. built-in defaults
//  2. a YAML file ($METRO_CONFIG, else ./metro.yaml when present)
//  3. environment variables, optionally seeded from a .env file
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file looked up in the working directory.
const DefaultPath = "metro.yaml"

// Config is the full runtime configuration.
type Config struct {
	Data            DataConfig   `yaml:"data"`
	Velocity        float64      `yaml:"velocity"`
	TransferPenalty *float64     `yaml:"transfer_penalty,omitempty"`
	MaxIterations   int          `yaml:"max_iterations,omitempty"`
	Dedup           string       `yaml:"dedup,omitempty"`
	Start           string       `yaml:"start,omitempty"`
	Goal            string       `yaml:"goal,omitempty"`
	Server          ServerConfig `yaml:"server"`
	Log             LogConfig    `yaml:"log"`
}

// DataConfig names the three network tables.
type DataConfig struct {
	Lines          string `yaml:"lines"`
	RealDistance   string `yaml:"real_distance"`
	DirectDistance string `yaml:"direct_distance"`
}

// ServerConfig configures `metro serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	CacheSize      int      `yaml:"cache_size"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the settings used when no file is found.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load finds and loads the config file, or returns defaults if none is found.
// Environment overrides are applied in both cases. The returned path is empty
// when no file was read.
func Load() (*Config, string, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	path := FindConfigPath()
	if path == "" {
		cfg := DefaultConfig()
		if err := cfg.applyEnv(); err != nil {
			return nil, "", err
		}
		return cfg, "", cfg.Validate()
	}
	return LoadFromPath(path)
}

// FindConfigPath returns $METRO_CONFIG or DefaultPath if it exists.
func FindConfigPath() string {
	if path := os.Getenv("METRO_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}
	return &cfg, path, nil
}

// Save writes config to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Penalty returns the configured transfer penalty.
func (c *Config) Penalty() float64 {
	if c.TransferPenalty == nil {
		return 3
	}
	return *c.TransferPenalty
}

// Validate rejects settings the search cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Velocity <= 0 {
		errs = append(errs, fmt.Errorf("velocity must be positive, got %v", c.Velocity))
	}
	if c.Penalty() < 0 {
		errs = append(errs, fmt.Errorf("transfer_penalty must not be negative, got %v", c.Penalty()))
	}
	if c.MaxIterations < 0 {
		errs = append(errs, fmt.Errorf("max_iterations must not be negative, got %d", c.MaxIterations))
	}
	switch strings.ToLower(c.Dedup) {
	case "state", "path":
	default:
		errs = append(errs, fmt.Errorf("dedup must be state or path, got %q", c.Dedup))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	if c.Data.Lines == "" {
		c.Data.Lines = "data/linhas.csv"
	}
	if c.Data.RealDistance == "" {
		c.Data.RealDistance = "data/distancia_real.csv"
	}
	if c.Data.DirectDistance == "" {
		c.Data.DirectDistance = "data/distancia_direta.csv"
	}
	if c.Velocity == 0 {
		c.Velocity = 40
	}
	if c.TransferPenalty == nil {
		penalty := 3.0
		c.TransferPenalty = &penalty
	}
	if c.Dedup == "" {
		c.Dedup = "state"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 256
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// applyEnv overrides fields from METRO_* variables.
func (c *Config) applyEnv() error {
	var err error
	if c.Velocity, err = getEnvAsFloat("METRO_VELOCITY", c.Velocity); err != nil {
		return err
	}
	penalty, err := getEnvAsFloat("METRO_TRANSFER_PENALTY", c.Penalty())
	if err != nil {
		return err
	}
	c.TransferPenalty = &penalty
	if c.MaxIterations, err = getEnvAsInt("METRO_MAX_ITERATIONS", c.MaxIterations); err != nil {
		return err
	}
	c.Dedup = getEnv("METRO_DEDUP", c.Dedup)
	c.Data.Lines = getEnv("METRO_LINES", c.Data.Lines)
	c.Data.RealDistance = getEnv("METRO_REAL_DISTANCE", c.Data.RealDistance)
	c.Data.DirectDistance = getEnv("METRO_DIRECT_DISTANCE", c.Data.DirectDistance)
	c.Server.Addr = getEnv("METRO_ADDR", c.Server.Addr)
	c.Log.Level = getEnv("METRO_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("METRO_LOG_FORMAT", c.Log.Format)
	return nil
}

// getEnv returns an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return value, nil
}
