package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EMSDASH_DATA_DIR", dir)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("default host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Observability.MetricsEnabled {
		t.Error("metrics should default to enabled")
	}
	if len(cfg.Peak.Schedules) != 0 {
		t.Errorf("expected no peak schedules by default, got %d", len(cfg.Peak.Schedules))
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EMSDASH_DATA_DIR", dir)
	t.Setenv("EMSDASH_HOST", "127.0.0.1")
	t.Setenv("EMSDASH_PORT", "9001")
	t.Setenv("EMSDASH_METRICS_ENABLED", "false")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9001 {
		t.Errorf("overrides not applied: %+v", cfg.Server)
	}
	if cfg.Observability.MetricsEnabled {
		t.Error("metrics override not applied")
	}
}

func TestLoadFromEnvInvalidValuesFallBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("EMSDASH_DATA_DIR", dir)
	t.Setenv("EMSDASH_PORT", "not-a-port")
	t.Setenv("EMSDASH_METRICS_ENABLED", "maybe")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("invalid port should fall back to default, got %d", cfg.Server.Port)
	}
	if !cfg.Observability.MetricsEnabled {
		t.Error("invalid bool should fall back to default")
	}
}

func TestLoadFromEnvMissingDataDir(t *testing.T) {
	t.Setenv("EMSDASH_DATA_DIR", filepath.Join(t.TempDir(), "does-not-exist"))

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() accepted a missing data directory")
	}
}

func TestLoadPeakSchedules(t *testing.T) {
	dir := t.TempDir()
	schedulesYAML := `
schedules:
  - dayOfWeek: "1-5"
    start: "13:00"
    end: "17:59"
`
	path := filepath.Join(dir, "peak.yaml")
	if err := os.WriteFile(path, []byte(schedulesYAML), 0644); err != nil {
		t.Fatalf("failed to write schedules file: %v", err)
	}

	t.Setenv("EMSDASH_DATA_DIR", dir)
	t.Setenv("EMSDASH_PEAK_SCHEDULES_PATH", path)

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error: %v", err)
	}
	if len(cfg.Peak.Schedules) != 1 {
		t.Fatalf("expected 1 schedule, got %d", len(cfg.Peak.Schedules))
	}
	if cfg.Peak.Schedules[0].Start != "13:00" {
		t.Errorf("schedule start = %q", cfg.Peak.Schedules[0].Start)
	}
}

func TestLoadPeakSchedulesInvalid(t *testing.T) {
	dir := t.TempDir()
	badYAML := `
schedules:
  - dayOfWeek: "9"
    start: "13:00"
    end: "17:59"
`
	path := filepath.Join(dir, "peak.yaml")
	if err := os.WriteFile(path, []byte(badYAML), 0644); err != nil {
		t.Fatalf("failed to write schedules file: %v", err)
	}

	t.Setenv("EMSDASH_DATA_DIR", dir)
	t.Setenv("EMSDASH_PEAK_SCHEDULES_PATH", path)

	if _, err := LoadFromEnv(); err == nil {
		t.Fatal("LoadFromEnv() accepted an invalid peak schedule")
	}
}

func TestPeakWindowFallsBackToDefault(t *testing.T) {
	cfg := &Config{}
	w := cfg.PeakWindow()
	if w == nil {
		t.Fatal("PeakWindow() returned nil")
	}
}
