package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultSource is the restricted lookup view created for least-privilege
// deployments.
const DefaultSource = "authuser_view"

// sourcePattern restricts the configured table or view name to a plain,
// optionally schema-qualified SQL identifier. The source name is the only
// configuration value interpolated into query text, so it is validated here
// rather than at query time.
var sourcePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Config holds the database connection and lookup settings for the library.
// Hosts construct it once, either directly or via FromEnv, and pass it by
// value.
type Config struct {
	// DatabaseURL is the PostgreSQL connection string.
	DatabaseURL string

	// Source is the table or view queried for user rows.
	Source string

	// Connection pool settings.
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// ConnectTimeout bounds the initial connectivity check.
	ConnectTimeout time.Duration

	// LogLevel sets the default logger verbosity: debug, info, warn, error.
	LogLevel string
}

// Default returns the configuration defaults without consulting the
// environment. DatabaseURL stays empty and must be filled in by the host.
func Default() Config {
	return Config{
		Source:          DefaultSource,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		LogLevel:        "info",
	}
}

// FromEnv loads configuration from USERFED_* environment variables and
// validates it.
func FromEnv() (Config, error) {
	def := Default()
	cfg := Config{
		DatabaseURL:     getEnv("USERFED_DATABASE_URL", ""),
		Source:          getEnv("USERFED_SOURCE", def.Source),
		MaxOpenConns:    getEnvInt("USERFED_MAX_OPEN_CONNS", def.MaxOpenConns),
		MaxIdleConns:    getEnvInt("USERFED_MAX_IDLE_CONNS", def.MaxIdleConns),
		ConnMaxLifetime: getEnvDuration("USERFED_CONN_MAX_LIFETIME", def.ConnMaxLifetime),
		ConnMaxIdleTime: getEnvDuration("USERFED_CONN_MAX_IDLE_TIME", def.ConnMaxIdleTime),
		ConnectTimeout:  getEnvDuration("USERFED_CONNECT_TIMEOUT", def.ConnectTimeout),
		LogLevel:        getEnv("USERFED_LOG_LEVEL", def.LogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is usable.
func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database URL is required")
	}
	if !ValidSourceName(c.Source) {
		return fmt.Errorf("invalid source name: %q", c.Source)
	}
	if c.MaxOpenConns <= 0 {
		return fmt.Errorf("max open connections must be positive")
	}
	if c.MaxIdleConns < 0 {
		return fmt.Errorf("max idle connections must not be negative")
	}
	if c.ConnectTimeout <= 0 {
		return fmt.Errorf("connect timeout must be positive")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	return nil
}

// ValidSourceName reports whether name is acceptable as the lookup table or
// view name, optionally schema-qualified.
func ValidSourceName(name string) bool {
	return sourcePattern.MatchString(name)
}

// LogrusLevel returns the configured log level, defaulting to info when the
// value does not parse.
func (c Config) LogrusLevel() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
