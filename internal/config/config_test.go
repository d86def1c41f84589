package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	vars := map[string]string{
		"CARDVAULT_API_URL":  "http://api.test:9000/",
		"SCAN_POLL_INTERVAL": "250ms",
		"SCAN_AUTO_CONFIRM":  "false",
		"SESSION_BACKEND":    "Memory",
	}
	for k, v := range vars {
		if err := os.Setenv(k, v); err != nil {
			t.Fatalf("Failed to set %s: %v", k, err)
		}
	}
	defer func() {
		for k := range vars {
			_ = os.Unsetenv(k)
		}
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.API.BaseURL != "http://api.test:9000" {
		t.Errorf("API.BaseURL = %v, want %v", cfg.API.BaseURL, "http://api.test:9000")
	}

	if cfg.Scan.PollInterval != 250*time.Millisecond {
		t.Errorf("Scan.PollInterval = %v, want %v", cfg.Scan.PollInterval, 250*time.Millisecond)
	}

	if cfg.Scan.AutoConfirm {
		t.Errorf("Scan.AutoConfirm = true, want false")
	}

	if cfg.Session.Backend != "memory" {
		t.Errorf("Session.Backend = %v, want memory", cfg.Session.Backend)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("API.BaseURL = %v", cfg.API.BaseURL)
	}
	if cfg.Scan.MaxAttempts != 60 {
		t.Errorf("Scan.MaxAttempts = %v, want 60", cfg.Scan.MaxAttempts)
	}
	if cfg.Scan.MaxFileSize != 10485760 {
		t.Errorf("Scan.MaxFileSize = %v, want 10485760", cfg.Scan.MaxFileSize)
	}
	if cfg.Layout.UnreadPollInterval != 10*time.Second {
		t.Errorf("Layout.UnreadPollInterval = %v, want 10s", cfg.Layout.UnreadPollInterval)
	}
	if !cfg.Scan.AutoConfirm || !cfg.Dashboard.Placeholders {
		t.Errorf("expected auto-confirm and placeholders on by default")
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	if err := os.Setenv("SESSION_BACKEND", "etcd"); err != nil {
		t.Fatalf("Failed to set env var: %v", err)
	}
	defer func() {
		_ = os.Unsetenv("SESSION_BACKEND")
	}()

	if _, err := LoadConfig(); err == nil {
		t.Fatal("LoadConfig() expected error for unknown backend")
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns environment variable when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when environment variable not set",
			key:          "NONEXISTENT_KEY",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				if err := os.Setenv(tt.key, tt.envValue); err != nil {
					t.Fatalf("Failed to set env var: %v", err)
				}
				defer func() {
					_ = os.Unsetenv(tt.key)
				}()
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		want         int
	}{
		{"returns integer when valid", "TEST_INT", 100, "200", 200},
		{"returns default when invalid", "TEST_INT_INVALID", 100, "invalid", 100},
		{"returns default when not set", "TEST_INT_NOTSET", 100, "", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				if err := os.Setenv(tt.key, tt.envValue); err != nil {
					t.Fatalf("Failed to set env var: %v", err)
				}
				defer func() {
					_ = os.Unsetenv(tt.key)
				}()
			}

			got := getEnvAsInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{"parses true", "TEST_BOOL_TRUE", false, "true", true},
		{"parses zero as false", "TEST_BOOL_ZERO", true, "0", false},
		{"returns default when invalid", "TEST_BOOL_INVALID", true, "maybe", true},
		{"returns default when not set", "TEST_BOOL_NOTSET", true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				if err := os.Setenv(tt.key, tt.envValue); err != nil {
					t.Fatalf("Failed to set env var: %v", err)
				}
				defer func() {
					_ = os.Unsetenv(tt.key)
				}()
			}

			if got := getEnvAsBool(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnvAsBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		want         time.Duration
	}{
		{"returns duration when valid", "TEST_DURATION", 10 * time.Second, "30s", 30 * time.Second},
		{"returns default when invalid", "TEST_DURATION_INVALID", 10 * time.Second, "invalid", 10 * time.Second},
		{"returns default when not set", "TEST_DURATION_NOTSET", 10 * time.Second, "", 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				if err := os.Setenv(tt.key, tt.envValue); err != nil {
					t.Fatalf("Failed to set env var: %v", err)
				}
				defer func() {
					_ = os.Unsetenv(tt.key)
				}()
			}

			got := getEnvAsDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvAsDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}
