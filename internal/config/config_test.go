package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Addr != "127.0.0.1:8347" {
		t.Fatalf("unexpected default addr: %s", cfg.Addr)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected default log level: %s", cfg.LogLevel)
	}
	if !strings.HasSuffix(cfg.DBPath, "expense-tracker.db") {
		t.Fatalf("unexpected default db path: %s", cfg.DBPath)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EXPENSE_TRACKER_ADDR", "localhost:9000")
	t.Setenv("EXPENSE_TRACKER_DB_PATH", "/tmp/custom.db")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.Addr != "localhost:9000" {
		t.Fatalf("addr override not applied: %s", cfg.Addr)
	}
	if cfg.DBPath != "/tmp/custom.db" {
		t.Fatalf("db path override not applied: %s", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level override not applied: %s", cfg.LogLevel)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{
			name:   "valid defaults",
			config: Config{Addr: "127.0.0.1:8347", DBPath: "/tmp/t.db", LogLevel: "info"},
		},
		{
			name:   "localhost is loopback",
			config: Config{Addr: "localhost:9000", DBPath: "/tmp/t.db", LogLevel: "debug"},
		},
		{
			name:   "ipv6 loopback",
			config: Config{Addr: "[::1]:9000", DBPath: "/tmp/t.db", LogLevel: "warn"},
		},
		{
			name:    "non-loopback address rejected",
			config:  Config{Addr: "0.0.0.0:9000", DBPath: "/tmp/t.db", LogLevel: "info"},
			wantErr: "not loopback",
		},
		{
			name:    "address without port rejected",
			config:  Config{Addr: "127.0.0.1", DBPath: "/tmp/t.db", LogLevel: "info"},
			wantErr: "invalid listen address",
		},
		{
			name:    "empty db path rejected",
			config:  Config{Addr: "127.0.0.1:8347", DBPath: "", LogLevel: "info"},
			wantErr: "database path cannot be empty",
		},
		{
			name:    "bad log level rejected",
			config:  Config{Addr: "127.0.0.1:8347", DBPath: "/tmp/t.db", LogLevel: "verbose"},
			wantErr: "invalid log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected ok, got %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	for level, want := range map[string]string{
		"debug": "DEBUG",
		"info":  "INFO",
		"warn":  "WARN",
		"error": "ERROR",
	} {
		cfg := Config{LogLevel: level}
		if got := cfg.SlogLevel().String(); got != want {
			t.Fatalf("%s expected %s, got %s", level, want, got)
		}
	}
}
