package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Provider ProviderConfig `yaml:"provider" envconfig:"PROVIDER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// ProviderConfig contains market-data provider configuration
type ProviderConfig struct {
	BaseURL   string          `yaml:"base_url" envconfig:"BASE_URL" default:"https://query1.finance.yahoo.com" validate:"required,url"`
	Timeout   time.Duration   `yaml:"timeout" envconfig:"TIMEOUT" default:"30s" validate:"gt=0"`
	UserAgent string          `yaml:"user_agent" envconfig:"USER_AGENT" default:"closecli/1.0"`
	RateLimit RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains outbound request rate limiting configuration
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" envconfig:"RPS" default:"2" validate:"gt=0"`
	Burst int     `yaml:"burst" envconfig:"BURST" default:"1" validate:"gte=1"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
}

// Load loads configuration from environment variables and an optional
// YAML config file. Environment variables take precedence over the file,
// which takes precedence over defaults.
func Load(configFile string) (*Config, error) {
	var cfg Config

	// Load defaults and environment variables first
	if err := envconfig.Process("CLOSECLI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configFile, err)
		}
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config over env config for fields the
// environment left at their envconfig defaults. Environment values win
// only when explicitly set, so the file is applied wherever the env
// variable is absent.
func mergeConfigs(fileConfig, envConfig Config) Config {
	merged := envConfig

	if fileConfig.Provider.BaseURL != "" && os.Getenv("CLOSECLI_PROVIDER_BASE_URL") == "" {
		merged.Provider.BaseURL = fileConfig.Provider.BaseURL
	}
	if fileConfig.Provider.Timeout != 0 && os.Getenv("CLOSECLI_PROVIDER_TIMEOUT") == "" {
		merged.Provider.Timeout = fileConfig.Provider.Timeout
	}
	if fileConfig.Provider.UserAgent != "" && os.Getenv("CLOSECLI_PROVIDER_USER_AGENT") == "" {
		merged.Provider.UserAgent = fileConfig.Provider.UserAgent
	}
	if fileConfig.Provider.RateLimit.RPS != 0 && os.Getenv("CLOSECLI_PROVIDER_RATE_LIMIT_RPS") == "" {
		merged.Provider.RateLimit.RPS = fileConfig.Provider.RateLimit.RPS
	}
	if fileConfig.Provider.RateLimit.Burst != 0 && os.Getenv("CLOSECLI_PROVIDER_RATE_LIMIT_BURST") == "" {
		merged.Provider.RateLimit.Burst = fileConfig.Provider.RateLimit.Burst
	}
	if fileConfig.Logging.Level != "" && os.Getenv("CLOSECLI_LOGGING_LEVEL") == "" {
		merged.Logging.Level = fileConfig.Logging.Level
	}
	if fileConfig.Logging.Format != "" && os.Getenv("CLOSECLI_LOGGING_FORMAT") == "" {
		merged.Logging.Format = fileConfig.Logging.Format
	}

	return merged
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	return nil
}
