package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/marmos91/helocheck/internal/bytesize"
)

// yamlSafePath converts a filesystem path to a YAML-safe representation.
// On Windows, backslashes in double-quoted YAML strings are interpreted as
// escape sequences (e.g. \U -> Unicode escape), causing parse errors.
func yamlSafePath(p string) string {
	return filepath.ToSlash(p)
}

// isolateConfigDir points the default config location at an empty temp dir.
func isolateConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoad_ConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := writeConfig(t, `
logging:
  level: "debug"

device:
  type: file
  file:
    path: "`+yamlSafePath(tmpDir)+`/disk.img"
    size: 1MiB

scan:
  count: 100
  order: random
  seed: 7
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level 'DEBUG', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default output 'stderr', got %q", cfg.Logging.Output)
	}
	if cfg.Device.File.Size != bytesize.MiB {
		t.Errorf("Expected file size 1MiB, got %s", cfg.Device.File.Size)
	}
	if !cfg.Device.File.Create {
		t.Error("Expected create to default to true")
	}
	if cfg.Device.File.FileMode != DefaultFileMode {
		t.Errorf("Expected file mode %o, got %o", DefaultFileMode, cfg.Device.File.FileMode)
	}
	if cfg.Scan.Count != 100 || cfg.Scan.Order != "random" || cfg.Scan.Seed != 7 {
		t.Errorf("Unexpected scan config: %+v", cfg.Scan)
	}
	if cfg.Scan.Workers != 4 {
		t.Errorf("Expected default workers 4, got %d", cfg.Scan.Workers)
	}
	if cfg.Metrics.ReadTimeout != 10*time.Second {
		t.Errorf("Expected default read timeout 10s, got %v", cfg.Metrics.ReadTimeout)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolateConfigDir(t)

	// A missing file still yields the default configuration
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Expected no error when loading default config, got: %v", err)
	}

	if cfg.Device.Type != DeviceFile {
		t.Errorf("Expected default device type 'file', got %q", cfg.Device.Type)
	}
	if cfg.Device.File.Path != DefaultImagePath {
		t.Errorf("Expected default image path %q, got %q", DefaultImagePath, cfg.Device.File.Path)
	}
	if cfg.Device.File.Size != DefaultImageSize {
		t.Errorf("Expected default image size %s, got %s", DefaultImageSize, cfg.Device.File.Size)
	}
	if cfg.Metrics.Enabled {
		t.Error("Expected metrics to be disabled by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolateConfigDir(t)
	t.Setenv("HELOCHECK_DEVICE_TYPE", "memory")
	t.Setenv("HELOCHECK_DEVICE_CAPACITY", "1MiB")
	t.Setenv("HELOCHECK_SCAN_ORDER", "reverse")
	t.Setenv("HELOCHECK_SCAN_WORKERS", "8")
	t.Setenv("HELOCHECK_METRICS_ENABLED", "true")
	t.Setenv("HELOCHECK_METRICS_READ_TIMEOUT", "3s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Device.Type != DeviceMemory {
		t.Errorf("Expected device type 'memory', got %q", cfg.Device.Type)
	}
	if cfg.Device.Capacity != bytesize.MiB {
		t.Errorf("Expected capacity 1MiB, got %s", cfg.Device.Capacity)
	}
	if cfg.Scan.Order != "reverse" {
		t.Errorf("Expected order 'reverse', got %q", cfg.Scan.Order)
	}
	if cfg.Scan.Workers != 8 {
		t.Errorf("Expected 8 workers, got %d", cfg.Scan.Workers)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Expected metrics to be enabled")
	}
	if cfg.Metrics.ReadTimeout != 3*time.Second {
		t.Errorf("Expected read timeout 3s, got %v", cfg.Metrics.ReadTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	configPath := writeConfig(t, `
scan:
  order: sequential
`)
	t.Setenv("HELOCHECK_SCAN_ORDER", "random")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Scan.Order != "random" {
		t.Errorf("Expected environment to win, got %q", cfg.Scan.Order)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeConfig(t, "device: [unterminated\n")

	if _, err := Load(configPath); err == nil {
		t.Fatal("Expected error for malformed YAML")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	configPath := writeConfig(t, `
device:
  type: floppy
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Expected validation error for unknown device type")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("Expected validation error, got: %v", err)
	}
}

func TestMustLoad_MissingFile(t *testing.T) {
	isolateConfigDir(t)

	_, err := MustLoad("")
	if err == nil {
		t.Fatal("Expected error when no default config exists")
	}
	if !strings.Contains(err.Error(), "helocheck config init") {
		t.Errorf("Expected hint to run config init, got: %v", err)
	}

	_, err = MustLoad(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("Expected not found error, got: %v", err)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	isolateConfigDir(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Device.Type = DeviceBadger
	cfg.Device.Badger.InMemory = true
	cfg.Device.Capacity = 4 * bytesize.MiB
	cfg.Scan.Size = 1536 * bytesize.KiB
	cfg.Scan.MaxFailures = -1

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file was not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && runtime.GOOS != "windows" {
		t.Errorf("Expected mode 0600, got %o", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load saved config: %v", err)
	}
	if loaded.Device.Type != DeviceBadger || !loaded.Device.Badger.InMemory {
		t.Errorf("Device section did not round trip: %+v", loaded.Device)
	}
	if loaded.Device.Capacity != 4*bytesize.MiB {
		t.Errorf("Expected capacity 4MiB, got %s", loaded.Device.Capacity)
	}
	if loaded.Scan.Size != 1536*bytesize.KiB {
		t.Errorf("Expected scan size 1536KiB, got %s", loaded.Scan.Size)
	}
	if loaded.Scan.MaxFailures != -1 {
		t.Errorf("Expected max failures -1, got %d", loaded.Scan.MaxFailures)
	}
}

func TestDecodeHooks(t *testing.T) {
	configPath := writeConfig(t, `
device:
  type: memory
  capacity: 2048
metrics:
  idle_timeout: 2m
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Device.Capacity != 2*bytesize.KiB {
		t.Errorf("Expected plain integer capacity 2048, got %d", cfg.Device.Capacity)
	}
	if cfg.Metrics.IdleTimeout != 2*time.Minute {
		t.Errorf("Expected idle timeout 2m, got %v", cfg.Metrics.IdleTimeout)
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	dir := isolateConfigDir(t)

	want := filepath.Join(dir, "helocheck", "config.yaml")
	if got := GetDefaultConfigPath(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if DefaultConfigExists() {
		t.Error("Expected no default config in an empty directory")
	}
}
