package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errorString string
	}{
		{
			name: "valid config",
			config: Config{
				Port:                 "8081",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           6 * time.Hour,
				SessionPruneInterval: 15 * time.Minute,
			},
			wantErr: false,
		},
		{
			name: "invalid port - non-numeric",
			config: Config{
				Port:                 "abc",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           6 * time.Hour,
				SessionPruneInterval: 15 * time.Minute,
			},
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name: "invalid port - out of range low",
			config: Config{
				Port:                 "0",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           6 * time.Hour,
				SessionPruneInterval: 15 * time.Minute,
			},
			wantErr:     true,
			errorString: "invalid port 0: must be between 1 and 65535",
		},
		{
			name: "invalid port - out of range high",
			config: Config{
				Port:                 "70000",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           6 * time.Hour,
				SessionPruneInterval: 15 * time.Minute,
			},
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name: "missing database path",
			config: Config{
				Port:                 "8080",
				SQLiteDBPath:         "",
				SessionTTL:           6 * time.Hour,
				SessionPruneInterval: 15 * time.Minute,
			},
			wantErr:     true,
			errorString: "SQLite database path cannot be empty",
		},
		{
			name: "session TTL too short",
			config: Config{
				Port:                 "8080",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           30 * time.Second,
				SessionPruneInterval: 15 * time.Minute,
			},
			wantErr:     true,
			errorString: "invalid session TTL 30s: must be at least 1 minute",
		},
		{
			name: "session TTL too long",
			config: Config{
				Port:                 "8080",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           31 * 24 * time.Hour,
				SessionPruneInterval: 15 * time.Minute,
			},
			wantErr:     true,
			errorString: "must be at most 30 days",
		},
		{
			name: "prune interval too short",
			config: Config{
				Port:                 "8080",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           6 * time.Hour,
				SessionPruneInterval: 5 * time.Second,
			},
			wantErr:     true,
			errorString: "invalid session prune interval 5s: must be at least 1 minute",
		},
		{
			name: "prune interval too long",
			config: Config{
				Port:                 "8080",
				SQLiteDBPath:         "./test.db",
				SessionTTL:           6 * time.Hour,
				SessionPruneInterval: 25 * time.Hour,
			},
			wantErr:     true,
			errorString: "invalid session prune interval 25h0m0s: must be at most 24 hours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Config.Validate() error = nil, wantErr %v", tt.wantErr)
					return
				}
				if tt.errorString != "" && !strings.Contains(err.Error(), tt.errorString) {
					t.Errorf("Config.Validate() error = %v, want error containing %v", err.Error(), tt.errorString)
				}
			} else {
				if err != nil {
					t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
				}
			}
		})
	}
}

func TestLoad(t *testing.T) {
	originalVars := map[string]string{
		"PORT":                   os.Getenv("PORT"),
		"SQLITE_DB_PATH":         os.Getenv("SQLITE_DB_PATH"),
		"SESSION_TTL":            os.Getenv("SESSION_TTL"),
		"SESSION_PRUNE_INTERVAL": os.Getenv("SESSION_PRUNE_INTERVAL"),
		"LOG_LEVEL":              os.Getenv("LOG_LEVEL"),
	}

	for key := range originalVars {
		os.Unsetenv(key)
	}

	defer func() {
		for key, value := range originalVars {
			if value != "" {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	}()

	t.Run("default values", func(t *testing.T) {
		cfg := Load()

		if cfg.Port != "8081" {
			t.Errorf("Load() Port = %v, want 8081", cfg.Port)
		}
		if cfg.SQLiteDBPath != "./data/ledger.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want ./data/ledger.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionTTL != 6*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 6h", cfg.SessionTTL)
		}
		if cfg.SessionPruneInterval != 15*time.Minute {
			t.Errorf("Load() SessionPruneInterval = %v, want 15m", cfg.SessionPruneInterval)
		}
		if cfg.LogLevel != slog.LevelInfo {
			t.Errorf("Load() LogLevel = %v, want info", cfg.LogLevel)
		}
	})

	t.Run("environment variables", func(t *testing.T) {
		os.Setenv("PORT", "9090")
		os.Setenv("SQLITE_DB_PATH", "/tmp/test.db")
		os.Setenv("SESSION_TTL", "12h")
		os.Setenv("SESSION_PRUNE_INTERVAL", "30m")
		os.Setenv("LOG_LEVEL", "debug")

		cfg := Load()

		if cfg.Port != "9090" {
			t.Errorf("Load() Port = %v, want 9090", cfg.Port)
		}
		if cfg.SQLiteDBPath != "/tmp/test.db" {
			t.Errorf("Load() SQLiteDBPath = %v, want /tmp/test.db", cfg.SQLiteDBPath)
		}
		if cfg.SessionTTL != 12*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 12h", cfg.SessionTTL)
		}
		if cfg.SessionPruneInterval != 30*time.Minute {
			t.Errorf("Load() SessionPruneInterval = %v, want 30m", cfg.SessionPruneInterval)
		}
		if cfg.LogLevel != slog.LevelDebug {
			t.Errorf("Load() LogLevel = %v, want debug", cfg.LogLevel)
		}
	})

	t.Run("invalid environment variables use defaults", func(t *testing.T) {
		os.Setenv("SESSION_TTL", "invalid")
		os.Setenv("LOG_LEVEL", "loud")

		cfg := Load()

		if cfg.SessionTTL != 6*time.Hour {
			t.Errorf("Load() SessionTTL = %v, want 6h (default for invalid input)", cfg.SessionTTL)
		}
		if cfg.LogLevel != slog.LevelInfo {
			t.Errorf("Load() LogLevel = %v, want info (default for invalid input)", cfg.LogLevel)
		}
	})
}
