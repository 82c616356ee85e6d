package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Version          string   `json:"version" mapstructure:"version"`
	GenerationConfig string   `json:"generation_config" mapstructure:"generation_config"`
	ReportPath       string   `json:"report_path" mapstructure:"report_path"`
	Database         Database `json:"database" mapstructure:"database"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
	Schema   string `json:"schema" mapstructure:"schema"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.GenerationConfig == "" {
		cfg.GenerationConfig = "config_data_prueba.json"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}
	if cfg.Database.Schema == "" {
		cfg.Database.Schema = "public"
	}

	return &cfg, nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	switch c.Database.Provider {
	case "postgresql", "postgres":
	default:
		return fmt.Errorf("unsupported database provider: %s. Supported providers: [postgresql postgres]", c.Database.Provider)
	}

	if c.Database.Schema == "" {
		return fmt.Errorf("database schema cannot be empty")
	}

	return nil
}
