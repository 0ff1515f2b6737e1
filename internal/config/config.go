// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/j-veylop/capacity-dashboard-tui/internal/dataset"
)

// Config holds the application configuration.
type Config struct {
	DataPath             string
	DatabasePath         string
	ExportDir            string
	LogPath              string
	LogLevel             string
	SchemaPolicy         dataset.Policy
	ReloadDebounce       time.Duration
	DesktopNotifications bool
}

// Default values
const (
	defaultDataPath       = "data/site_metrics.csv"
	defaultExportDir      = "."
	defaultLogLevel       = "info"
	defaultReloadDebounce = 100 * time.Millisecond
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	// Try loading .env from multiple locations
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	policy, err := dataset.ParsePolicy(getEnvString("SCHEMA_POLICY", dataset.PolicySkip.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid SCHEMA_POLICY: %w", err)
	}

	cfg := &Config{
		DataPath:             getEnvString("DATA_PATH", defaultDataPath),
		DatabasePath:         getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		ExportDir:            getEnvString("EXPORT_DIR", defaultExportDir),
		LogPath:              getEnvString("LOG_PATH", getDefaultLogPath()),
		LogLevel:             strings.ToLower(getEnvString("LOG_LEVEL", defaultLogLevel)),
		SchemaPolicy:         policy,
		ReloadDebounce:       getEnvDuration("RELOAD_DEBOUNCE", defaultReloadDebounce),
		DesktopNotifications: getEnvBool("DESKTOP_NOTIFICATIONS", true),
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	// Ensure log directory exists
	if err := ensureDir(filepath.Dir(cfg.LogPath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if dir := configDir(); dir != "" {
		paths = append(paths, filepath.Join(dir, ".env"))
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "capacity-dashboard")
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	dir := configDir()
	if dir == "" {
		return "dashboard.db"
	}
	return filepath.Join(dir, "dashboard.db")
}

func getDefaultLogPath() string {
	dir := configDir()
	if dir == "" {
		return "dashboard.log"
	}
	return filepath.Join(dir, "dashboard.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvBool accepts the forms understood by strconv.ParseBool.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
