// Package config provides configuration management for the cardvault client.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMaxFileSize is the largest image accepted for a scan (10 MiB)
const DefaultMaxFileSize = 10 * 1024 * 1024

// Config holds all client configuration
type Config struct {
	API       APIConfig
	Session   SessionConfig
	Scan      ScanConfig
	Layout    LayoutConfig
	Dashboard DashboardConfig
	Logging   LoggingConfig
}

// APIConfig holds the REST backend connection settings
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, 0 disables the limiter
	RateBurst int
}

// SessionConfig selects where the login session is kept
type SessionConfig struct {
	Backend string // bolt, redis or memory
	Path    string
	Profile string
	Redis   RedisConfig
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ScanConfig holds scan workflow configuration
type ScanConfig struct {
	AutoConfirm  bool
	PollInterval time.Duration
	MaxAttempts  int
	MaxFileSize  int64
}

// LayoutConfig holds layout shell configuration
type LayoutConfig struct {
	UnreadPollInterval time.Duration
}

// DashboardConfig holds dashboard presentation settings
type DashboardConfig struct {
	Placeholders bool
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env is optional, the environment can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		API: APIConfig{
			BaseURL:   strings.TrimRight(getEnv("CARDVAULT_API_URL", "http://localhost:8000"), "/"),
			Timeout:   getEnvAsDuration("CARDVAULT_HTTP_TIMEOUT", 30*time.Second),
			RateLimit: getEnvAsFloat("CARDVAULT_RATE_LIMIT", 0),
			RateBurst: getEnvAsInt("CARDVAULT_RATE_BURST", 5),
		},
		Session: SessionConfig{
			Backend: strings.ToLower(getEnv("SESSION_BACKEND", "bolt")),
			Path:    getEnv("SESSION_PATH", defaultSessionPath()),
			Profile: getEnv("SESSION_PROFILE", "default"),
			Redis: RedisConfig{
				Host:     getEnv("REDIS_HOST", "localhost"),
				Port:     getEnv("REDIS_PORT", "6379"),
				Password: getEnv("REDIS_PASSWORD", ""),
				DB:       getEnvAsInt("REDIS_DB", 0),
			},
		},
		Scan: ScanConfig{
			AutoConfirm:  getEnvAsBool("SCAN_AUTO_CONFIRM", true),
			PollInterval: getEnvAsDuration("SCAN_POLL_INTERVAL", 500*time.Millisecond),
			MaxAttempts:  getEnvAsInt("SCAN_MAX_ATTEMPTS", 60),
			MaxFileSize:  int64(getEnvAsInt("SCAN_MAX_FILE_SIZE", DefaultMaxFileSize)),
		},
		Layout: LayoutConfig{
			UnreadPollInterval: getEnvAsDuration("UNREAD_POLL_INTERVAL", 10*time.Second),
		},
		Dashboard: DashboardConfig{
			Placeholders: getEnvAsBool("DASHBOARD_PLACEHOLDERS", true),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the client cannot run with
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case "bolt", "redis", "memory":
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("CARDVAULT_API_URL must not be empty")
	}
	if c.Scan.PollInterval <= 0 || c.Scan.MaxAttempts <= 0 {
		return fmt.Errorf("scan polling requires a positive interval and attempt budget")
	}
	if c.Layout.UnreadPollInterval <= 0 {
		return fmt.Errorf("UNREAD_POLL_INTERVAL must be positive")
	}
	return nil
}

// Addr returns host:port of the session Redis
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cardvault", "session.db")
	}
	return filepath.Join(home, ".cardvault", "session.db")
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
