// Package config loads the service configuration from a YAML file, a local
// .env file, and environment variable overrides.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the agreement service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Postmark  PostmarkConfig  `yaml:"postmark"`
	Redis     RedisConfig     `yaml:"redis"`
	Agreement AgreementConfig `yaml:"agreement"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the listen host, with container detection.
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// PostmarkConfig holds the transactional email provider settings.
type PostmarkConfig struct {
	ServerToken    string `yaml:"server_token"`
	AccountToken   string `yaml:"account_token"`
	From           string `yaml:"from"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-send timeout as a duration.
func (c PostmarkConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RedisConfig holds Redis settings for the submission rate limiter.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// AgreementConfig holds the pipeline settings: recipients, links, legal text
// location and operational limits.
type AgreementConfig struct {
	LicensorEmail       string `yaml:"licensor_email"`
	GuidelinesURL       string `yaml:"guidelines_url"`
	MaterialURL         string `yaml:"material_url"`
	TermsPath           string `yaml:"terms_path"`
	StoreTimeoutSeconds int    `yaml:"store_timeout_seconds"`
	RateLimitPerMinute  int    `yaml:"rate_limit_per_minute"`
}

// StoreTimeout returns the persistence timeout as a duration.
func (c AgreementConfig) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutSeconds) * time.Second
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Postmark.TimeoutSeconds == 0 {
		cfg.Postmark.TimeoutSeconds = 30
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Agreement.GuidelinesURL == "" {
		cfg.Agreement.GuidelinesURL = "https://www.sb-insight.com/guidelines"
	}
	if cfg.Agreement.MaterialURL == "" {
		cfg.Agreement.MaterialURL = "https://www.sb-insight.com/download-sbi-material"
	}
	if cfg.Agreement.TermsPath == "" {
		cfg.Agreement.TermsPath = "config/terms.txt"
	}
	if cfg.Agreement.StoreTimeoutSeconds == 0 {
		cfg.Agreement.StoreTimeoutSeconds = 10
	}
	if cfg.Agreement.RateLimitPerMinute == 0 {
		cfg.Agreement.RateLimitPerMinute = 10
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// A .env file (if present) is loaded first, so secrets can live in .env
// locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
	}
	if token := os.Getenv("POSTMARK_SERVER_TOKEN"); token != "" {
		cfg.Postmark.ServerToken = token
	}
	if token := os.Getenv("POSTMARK_ACCOUNT_TOKEN"); token != "" {
		cfg.Postmark.AccountToken = token
	}
	if from := os.Getenv("SENDER_EMAIL"); from != "" {
		cfg.Postmark.From = from
	}
	if email := os.Getenv("LICENSOR_EMAIL"); email != "" {
		cfg.Agreement.LicensorEmail = email
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		cfg.Redis.Password = pw
	}

	return cfg, nil
}
