// internal/common/config/config.go
package config

import "fmt"

// Config is the main client configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	API      APIConfig      `mapstructure:"api"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig points at the CareerLens backend.
type APIConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	Timeout             int    `mapstructure:"timeout"` // milliseconds
	RecommendationLimit int    `mapstructure:"recommendation_limit"`
	ValidateContracts   bool   `mapstructure:"validate_contracts"`
	ContractsPath       string `mapstructure:"contracts_path"` // empty uses the built-in registry
}

// AuthConfig holds settings for the hosted auth service.
type AuthConfig struct {
	URL     string `mapstructure:"url"`
	AnonKey string `mapstructure:"anon_key"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type SessionConfig struct {
	Store     string `mapstructure:"store"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TTL       int    `mapstructure:"ttl"` // seconds
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// RecommendationsURL is a convenience for log lines and diagnostics.
func (a APIConfig) RecommendationsURL(userID string) string {
	return fmt.Sprintf("%s/recommendations/%s?limit=%d", a.BaseURL, userID, a.RecommendationLimit)
}
