package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	appDirName = "expense-tracker"
	dbFileName = "expense-tracker.db"
)

type Config struct {
	// Addr is the bridge listen address. Must stay on a loopback interface;
	// the bridge is an in-machine boundary, not a network service.
	Addr string

	// DBPath is the SQLite database file location.
	DBPath string

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

func Load() *Config {
	return &Config{
		Addr:     getEnv("EXPENSE_TRACKER_ADDR", "127.0.0.1:8347"),
		DBPath:   getEnv("EXPENSE_TRACKER_DB_PATH", DefaultDBPath()),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// DefaultDBPath places the database in the per-user application data
// directory for the host OS.
func DefaultDBPath() string {
	return filepath.Join(userDataDir(), appDirName, dbFileName)
}

func userDataDir() string {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir
		}
	case "darwin":
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "share")
		}
	}
	return "."
}

// Validate checks the configuration and returns an error describing every
// problem found.
func (c *Config) Validate() error {
	var problems []string

	host, _, err := net.SplitHostPort(c.Addr)
	if err != nil {
		problems = append(problems, fmt.Sprintf("invalid listen address %q: %v", c.Addr, err))
	} else if !isLoopback(host) {
		problems = append(problems, fmt.Sprintf("listen address %q is not loopback; the bridge must not be network-exposed", c.Addr))
	}

	if c.DBPath == "" {
		problems = append(problems, "database path cannot be empty")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q: must be debug, info, warn or error", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// SlogLevel maps the configured level string onto slog's levels.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
