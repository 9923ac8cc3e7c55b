// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	baseURL := cfg.Service.BaseURL
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	Mock          MockConfig          `yaml:"mock"`
	DevServer     DevServerConfig     `yaml:"devserver"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServiceConfig holds the remote analysis service settings.
type ServiceConfig struct {
	BaseURL              string `yaml:"base_url"`
	TimeoutSeconds       int    `yaml:"timeout_seconds"`
	HealthTimeoutSeconds int    `yaml:"health_timeout_seconds"`
}

// Timeout returns the analyze/chat timeout as a duration.
func (s ServiceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// HealthTimeout returns the health-probe timeout as a duration.
func (s ServiceConfig) HealthTimeout() time.Duration {
	return time.Duration(s.HealthTimeoutSeconds) * time.Second
}

// MockConfig holds settings for the offline mock service.
type MockConfig struct {
	Enabled   bool `yaml:"enabled"`
	LatencyMS int  `yaml:"latency_ms"`
}

// Latency returns the simulated round-trip delay.
func (m MockConfig) Latency() time.Duration {
	return time.Duration(m.LatencyMS) * time.Millisecond
}

// DevServerConfig holds settings for the local stub server.
type DevServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${FINANCEIRO_BASE_URL})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := &Config{
		Service: ServiceConfig{
			BaseURL:              getEnv("FINANCEIRO_BASE_URL", "http://localhost:5000/api"),
			TimeoutSeconds:       getEnvInt("FINANCEIRO_TIMEOUT_SECONDS", 30),
			HealthTimeoutSeconds: getEnvInt("FINANCEIRO_HEALTH_TIMEOUT_SECONDS", 5),
		},
		Mock: MockConfig{
			Enabled:   getEnv("FINANCEIRO_USE_MOCK", "") == "true",
			LatencyMS: getEnvInt("FINANCEIRO_MOCK_LATENCY_MS", 400),
		},
		DevServer: DevServerConfig{
			Port: getEnvInt("PORT", 5000),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment
// variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back to
// environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Service.BaseURL == "" {
		c.Service.BaseURL = "http://localhost:5000/api"
	}
	if c.Service.TimeoutSeconds <= 0 {
		c.Service.TimeoutSeconds = 30
	}
	if c.Service.HealthTimeoutSeconds <= 0 {
		c.Service.HealthTimeoutSeconds = 5
	}
	if c.Mock.LatencyMS <= 0 {
		c.Mock.LatencyMS = 400
	}
	if c.DevServer.Port <= 0 {
		c.DevServer.Port = 5000
	}
	if len(c.DevServer.AllowedOrigins) == 0 {
		c.DevServer.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback
// default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
