package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/xxxsen/common/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port        int              `json:"port" env:"UXPAGES_PORT"`
	JWTSecret   string           `json:"jwt_secret" env:"UXPAGES_JWT_SECRET"`
	JWTTTLHours int              `json:"jwt_ttl_hours" env:"UXPAGES_JWT_TTL_HOURS"`
	CORSOrigins []string         `json:"cors_origins" env:"UXPAGES_CORS_ORIGINS"`
	LogConfig   logger.LogConfig `json:"log_config"`
	Database    DatabaseConfig   `json:"database"`
	History     HistoryConfig    `json:"history"`
	Cache       CacheConfig      `json:"cache"`
	// CreateRateLimitMS is the per-user window for page creation; negative
	// disables the limit.
	CreateRateLimitMS int `json:"create_rate_limit_ms" env:"UXPAGES_CREATE_RATE_LIMIT_MS"`
}

type DatabaseConfig struct {
	Driver   string `json:"driver" env:"UXPAGES_DB_DRIVER"`
	DSN      string `json:"dsn" env:"UXPAGES_DB_DSN"`
	Host     string `json:"host" env:"UXPAGES_DB_HOST"`
	Port     int    `json:"port" env:"UXPAGES_DB_PORT"`
	User     string `json:"user" env:"UXPAGES_DB_USER"`
	Password string `json:"password" env:"UXPAGES_DB_PASSWORD"`
	DBName   string `json:"dbname" env:"UXPAGES_DB_NAME"`
	SSLMode  string `json:"sslmode" env:"UXPAGES_DB_SSLMODE"`
}

type HistoryConfig struct {
	MaxKeep   int    `json:"max_keep" env:"UXPAGES_HISTORY_MAX_KEEP"`
	PruneSpec string `json:"prune_spec" env:"UXPAGES_HISTORY_PRUNE_SPEC"`
}

type CacheConfig struct {
	Size       int `json:"size"`
	TTLSeconds int `json:"ttl_seconds"`
}

// Load reads a json or yaml config file, then applies UXPAGES_* environment
// overrides and defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := decodeYAML(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeYAML routes yaml through json so both formats share the json tags.
func decodeYAML(data []byte, dst *Config) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, dst)
}

func (c *Config) applyDefaults() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.Port == 0 {
		return fmt.Errorf("port is required")
	}
	if c.JWTTTLHours == 0 {
		c.JWTTTLHours = 72
	}
	if c.CreateRateLimitMS == 0 {
		c.CreateRateLimitMS = 1000
	}
	if c.LogConfig.Level == "" {
		c.LogConfig.Level = "info"
	}
	if c.History.MaxKeep == 0 {
		c.History.MaxKeep = 50
	}
	if c.History.PruneSpec == "" {
		c.History.PruneSpec = "*/30 * * * *"
	}
	if c.Cache.Size == 0 {
		c.Cache.Size = 4096
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	switch c.Database.Driver {
	case "postgres":
		if c.Database.DSN == "" && c.Database.Host == "" {
			return fmt.Errorf("database.dsn or database.host is required for postgres")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
	case "sqlite":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for sqlite")
		}
	default:
		return fmt.Errorf("database.driver must be postgres or sqlite")
	}
	return nil
}
