package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/capacity-dashboard-tui/internal/dataset"
)

// isolate points HOME and the working directory at an empty temp dir so no
// stray .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	t.Setenv("PWD", tmpDir)
	for _, key := range []string{
		"DATA_PATH", "DATABASE_PATH", "EXPORT_DIR", "LOG_PATH", "LOG_LEVEL",
		"SCHEMA_POLICY", "RELOAD_DEBOUNCE", "DESKTOP_NOTIFICATIONS",
	} {
		t.Setenv(key, "")
	}
	return tmpDir
}

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	t.Setenv(key, val)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "250ms", time.Second, 250 * time.Millisecond},
		{"ValidSeconds", "2", time.Second, 2 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(key, tt.envVal)
			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_ENV_BOOL"

	tests := []struct {
		envVal     string
		defaultVal bool
		want       bool
	}{
		{"false", true, false},
		{"1", false, true},
		{"maybe", true, true},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Setenv(key, tt.envVal)
		if got := getEnvBool(key, tt.defaultVal); got != tt.want {
			t.Errorf("getEnvBool(%q) = %v, want %v", tt.envVal, got, tt.want)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Fatal("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	if paths[0] != filepath.Join(cwd, ".env") {
		t.Errorf("getEnvPaths()[0] = %q, want current directory .env", paths[0])
	}
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataPath != defaultDataPath {
		t.Errorf("DataPath = %q, want %q", cfg.DataPath, defaultDataPath)
	}
	wantDB := filepath.Join(home, ".config", "capacity-dashboard", "dashboard.db")
	if cfg.DatabasePath != wantDB {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, wantDB)
	}
	if cfg.SchemaPolicy != dataset.PolicySkip {
		t.Errorf("SchemaPolicy = %v, want skip", cfg.SchemaPolicy)
	}
	if cfg.ReloadDebounce != defaultReloadDebounce {
		t.Errorf("ReloadDebounce = %v, want %v", cfg.ReloadDebounce, defaultReloadDebounce)
	}
	if !cfg.DesktopNotifications {
		t.Error("DesktopNotifications should default to true")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if _, err := os.Stat(filepath.Dir(wantDB)); err != nil {
		t.Errorf("database directory not created: %v", err)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	tmpDir := isolate(t)
	t.Setenv("DATA_PATH", "/srv/metrics.csv")
	t.Setenv("DATABASE_PATH", filepath.Join(tmpDir, "db", "dash.db"))
	t.Setenv("SCHEMA_POLICY", "strict")
	t.Setenv("RELOAD_DEBOUNCE", "1s")
	t.Setenv("DESKTOP_NOTIFICATIONS", "false")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataPath != "/srv/metrics.csv" {
		t.Errorf("DataPath = %q", cfg.DataPath)
	}
	if cfg.SchemaPolicy != dataset.PolicyStrict {
		t.Errorf("SchemaPolicy = %v, want strict", cfg.SchemaPolicy)
	}
	if cfg.ReloadDebounce != time.Second {
		t.Errorf("ReloadDebounce = %v, want 1s", cfg.ReloadDebounce)
	}
	if cfg.DesktopNotifications {
		t.Error("DesktopNotifications should be false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_InvalidPolicy(t *testing.T) {
	isolate(t)
	t.Setenv("SCHEMA_POLICY", "lenient")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail for an unknown schema policy")
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := isolate(t)
	content := "DATA_PATH=from-env-file.csv\nEXPORT_DIR=exports\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	// godotenv does not override variables that are already set.
	os.Unsetenv("DATA_PATH")
	os.Unsetenv("EXPORT_DIR")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataPath != "from-env-file.csv" {
		t.Errorf("DataPath = %q, want from-env-file.csv", cfg.DataPath)
	}
	if cfg.ExportDir != "exports" {
		t.Errorf("ExportDir = %q, want exports", cfg.ExportDir)
	}
}
