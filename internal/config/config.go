package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Env                  string `mapstructure:"ENV"`
	LogLevel             string `mapstructure:"LOG_LEVEL"`
	CatalogFile          string `mapstructure:"CATALOG_FILE"`
	AdviceEnabled        bool   `mapstructure:"ADVICE_ENABLED"`
	AdviceURL            string `mapstructure:"ADVICE_URL"`
	AdviceTimeoutSeconds int    `mapstructure:"ADVICE_TIMEOUT_SECONDS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADVICE_ENABLED", false)
	v.SetDefault("ADVICE_TIMEOUT_SECONDS", 5)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("ENV")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("CATALOG_FILE")
	v.BindEnv("ADVICE_ENABLED")
	v.BindEnv("ADVICE_URL")
	v.BindEnv("ADVICE_TIMEOUT_SECONDS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Validate checks that the configuration is safe to run. The advisory call
// must resolve in seconds: a timeout above 60s would let a slow upstream
// stall triage responses.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, got %q", c.LogLevel)
	}

	if c.AdviceEnabled && c.AdviceURL == "" {
		return fmt.Errorf("ADVICE_URL is required when ADVICE_ENABLED is true")
	}
	if c.AdviceTimeoutSeconds <= 0 {
		return fmt.Errorf("ADVICE_TIMEOUT_SECONDS must be positive, got %d", c.AdviceTimeoutSeconds)
	}
	if c.AdviceTimeoutSeconds > 60 {
		return fmt.Errorf("ADVICE_TIMEOUT_SECONDS must be at most 60, got %d", c.AdviceTimeoutSeconds)
	}

	return nil
}
