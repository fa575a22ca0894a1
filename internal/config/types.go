package config

import (
	"time"

	"github.com/nivedm/datasentry/internal/cache"
	"github.com/nivedm/datasentry/internal/events"
	"github.com/nivedm/datasentry/internal/store"
)

// Config represents the main configuration structure
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Privacy   PrivacyConfig   `yaml:"privacy" mapstructure:"privacy"`
	Logging   LoggingConfig   `yaml:"logging" mapstructure:"logging"`
	Cache     cache.Config    `yaml:"cache" mapstructure:"cache"`
	Store     store.Config    `yaml:"store" mapstructure:"store"`
	Events    events.Config   `yaml:"events" mapstructure:"events"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port          int           `yaml:"port" mapstructure:"port"`
	ReadTimeout   time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	MaxUploadSize int64         `yaml:"max_upload_size" mapstructure:"max_upload_size"`
}

// PrivacyConfig contains PII detection and de-identification configuration
type PrivacyConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Detectors lists enabled PII types; "all" enables every detector.
	Detectors []string `yaml:"detectors" mapstructure:"detectors"`
	// Strategy is the default de-identification strategy for requests that
	// do not specify one.
	Strategy string `yaml:"strategy" mapstructure:"strategy"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
		Path    string `yaml:"path" mapstructure:"path"`
	} `yaml:"file" mapstructure:"file"`
}

// RateLimitConfig contains request rate limiting configuration
type RateLimitConfig struct {
	Enabled   bool    `yaml:"enabled" mapstructure:"enabled"`
	GlobalRPS float64 `yaml:"global_rps" mapstructure:"global_rps"`
	ClientRPS float64 `yaml:"client_rps" mapstructure:"client_rps"`
	Burst     int     `yaml:"burst" mapstructure:"burst"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:          8080,
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  30 * time.Second,
			IdleTimeout:   60 * time.Second,
			MaxUploadSize: 64 << 20, // 64 MiB
		},
		Privacy: PrivacyConfig{
			Enabled:   true,
			Detectors: []string{"all"},
			Strategy:  "Masking",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Cache: cache.Config{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379/0",
			MaxConnections: 10,
			MinIdleConns:   2,
			DefaultTTL:     time.Hour,
			KeyPrefix:      "datasentry",
		},
		Store: store.Config{
			Enabled:         false,
			DatabaseURL:     "postgres://localhost:5432/datasentry?sslmode=disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Events: events.Config{
			Enabled:              true,
			BroadcastDetections:  true,
			BroadcastRunProgress: true,
			BroadcastSystem:      true,
			BroadcastConnections: true,
		},
		RateLimit: RateLimitConfig{
			Enabled:   true,
			GlobalRPS: 100,
			ClientRPS: 10,
			Burst:     20,
		},
	}
}
