package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// userfedEnvVars lists every environment variable FromEnv reads, so tests
// can start from a clean slate.
var userfedEnvVars = []string{
	"USERFED_DATABASE_URL",
	"USERFED_SOURCE",
	"USERFED_MAX_OPEN_CONNS",
	"USERFED_MAX_IDLE_CONNS",
	"USERFED_CONN_MAX_LIFETIME",
	"USERFED_CONN_MAX_IDLE_TIME",
	"USERFED_CONNECT_TIMEOUT",
	"USERFED_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range userfedEnvVars {
		t.Setenv(k, "")
	}
}

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvInt tests the getEnvInt helper function
func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{
			name:         "returns parsed int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "42",
			want:         42,
		},
		{
			name:         "returns default for invalid int",
			key:          "TEST_INT",
			defaultValue: 10,
			envValue:     "invalid",
			want:         10,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_INT_NOT_SET",
			defaultValue: 10,
			envValue:     "",
			want:         10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			got := getEnvInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		want         time.Duration
	}{
		{
			name:         "returns parsed duration",
			key:          "TEST_DURATION",
			defaultValue: 10 * time.Second,
			envValue:     "30s",
			want:         30 * time.Second,
		},
		{
			name:         "returns default for invalid duration",
			key:          "TEST_DURATION",
			defaultValue: 10 * time.Second,
			envValue:     "invalid",
			want:         10 * time.Second,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_DURATION_NOT_SET",
			defaultValue: 10 * time.Second,
			envValue:     "",
			want:         10 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)

			got := getEnvDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDefault tests the Default configuration values
func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %v, want empty", cfg.DatabaseURL)
	}
	if cfg.Source != "authuser_view" {
		t.Errorf("Source = %v, want authuser_view", cfg.Source)
	}
	if cfg.MaxOpenConns != 10 {
		t.Errorf("MaxOpenConns = %v, want 10", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 2 {
		t.Errorf("MaxIdleConns = %v, want 2", cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 30m", cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime != 5*time.Minute {
		t.Errorf("ConnMaxIdleTime = %v, want 5m", cfg.ConnMaxIdleTime)
	}
	if cfg.ConnectTimeout != 5*time.Second {
		t.Errorf("ConnectTimeout = %v, want 5s", cfg.ConnectTimeout)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
}

// TestFromEnv tests loading configuration from the environment
func TestFromEnv(t *testing.T) {
	t.Run("defaults with database URL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("USERFED_DATABASE_URL", "postgres://localhost/authdb")

		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv() unexpected error = %v", err)
		}
		if cfg.DatabaseURL != "postgres://localhost/authdb" {
			t.Errorf("DatabaseURL = %v, want postgres://localhost/authdb", cfg.DatabaseURL)
		}
		if cfg.Source != DefaultSource {
			t.Errorf("Source = %v, want %v", cfg.Source, DefaultSource)
		}
		if cfg.MaxOpenConns != 10 {
			t.Errorf("MaxOpenConns = %v, want 10", cfg.MaxOpenConns)
		}
		if cfg.ConnectTimeout != 5*time.Second {
			t.Errorf("ConnectTimeout = %v, want 5s", cfg.ConnectTimeout)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("USERFED_DATABASE_URL", "postgres://db.internal/authdb")
		t.Setenv("USERFED_SOURCE", "public.authuser")
		t.Setenv("USERFED_MAX_OPEN_CONNS", "25")
		t.Setenv("USERFED_MAX_IDLE_CONNS", "5")
		t.Setenv("USERFED_CONN_MAX_LIFETIME", "1h")
		t.Setenv("USERFED_CONN_MAX_IDLE_TIME", "10m")
		t.Setenv("USERFED_CONNECT_TIMEOUT", "3s")
		t.Setenv("USERFED_LOG_LEVEL", "debug")

		cfg, err := FromEnv()
		if err != nil {
			t.Fatalf("FromEnv() unexpected error = %v", err)
		}
		if cfg.Source != "public.authuser" {
			t.Errorf("Source = %v, want public.authuser", cfg.Source)
		}
		if cfg.MaxOpenConns != 25 {
			t.Errorf("MaxOpenConns = %v, want 25", cfg.MaxOpenConns)
		}
		if cfg.MaxIdleConns != 5 {
			t.Errorf("MaxIdleConns = %v, want 5", cfg.MaxIdleConns)
		}
		if cfg.ConnMaxLifetime != time.Hour {
			t.Errorf("ConnMaxLifetime = %v, want 1h", cfg.ConnMaxLifetime)
		}
		if cfg.ConnMaxIdleTime != 10*time.Minute {
			t.Errorf("ConnMaxIdleTime = %v, want 10m", cfg.ConnMaxIdleTime)
		}
		if cfg.ConnectTimeout != 3*time.Second {
			t.Errorf("ConnectTimeout = %v, want 3s", cfg.ConnectTimeout)
		}
		if cfg.LogLevel != "debug" {
			t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("missing database URL", func(t *testing.T) {
		clearEnv(t)

		_, err := FromEnv()
		if err == nil {
			t.Fatal("FromEnv() expected error, got nil")
		}
	})

	t.Run("invalid source name", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("USERFED_DATABASE_URL", "postgres://localhost/authdb")
		t.Setenv("USERFED_SOURCE", "authuser; DROP TABLE authuser")

		_, err := FromEnv()
		if err == nil {
			t.Fatal("FromEnv() expected error, got nil")
		}
	})
}

// TestConfigValidate tests the Config.Validate method
func TestConfigValidate(t *testing.T) {
	valid := Default()
	valid.DatabaseURL = "postgres://localhost/authdb"

	t.Run("valid config", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("Validate() unexpected error = %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing database URL", func(c *Config) { c.DatabaseURL = "" }},
		{"empty source", func(c *Config) { c.Source = "" }},
		{"source with spaces", func(c *Config) { c.Source = "auth user" }},
		{"source with quotes", func(c *Config) { c.Source = `"authuser"` }},
		{"doubly qualified source", func(c *Config) { c.Source = "db.public.authuser" }},
		{"zero max open conns", func(c *Config) { c.MaxOpenConns = 0 }},
		{"negative max idle conns", func(c *Config) { c.MaxIdleConns = -1 }},
		{"zero connect timeout", func(c *Config) { c.ConnectTimeout = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() expected error, got nil")
			}
		})
	}
}

// TestValidSourceName tests the source identifier pattern
func TestValidSourceName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"authuser", true},
		{"authuser_view", true},
		{"public.authuser", true},
		{"_private", true},
		{"v2", true},
		{"", false},
		{"2fast", false},
		{"auth-user", false},
		{"auth user", false},
		{"authuser;", false},
		{".authuser", false},
		{"authuser.", false},
		{"a.b.c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidSourceName(tt.name); got != tt.want {
				t.Errorf("ValidSourceName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

// TestLogrusLevel tests log level parsing
func TestLogrusLevel(t *testing.T) {
	tests := []struct {
		level string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"info", logrus.InfoLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{LogLevel: tt.level}
			if got := cfg.LogrusLevel(); got != tt.want {
				t.Errorf("LogrusLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}
