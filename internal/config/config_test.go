package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/plantstack/plantwatch/internal/models"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plantwatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("unexpected default address %q", cfg.Server.Address)
	}
	if cfg.Simulator.Lookback() != 7*24*time.Hour {
		t.Fatalf("unexpected default lookback %s", cfg.Simulator.Lookback())
	}
	settings := cfg.Dashboard.Settings()
	if settings.TimeRange != models.RangeLastHour || settings.RefreshSeconds != 10 {
		t.Fatalf("unexpected default settings %v", settings)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
simulator:
  lookbackDays: 3
  seed: 42
dashboard:
  timeRange: "Last 24 hours"
  refreshSeconds: 30
  autoRefresh: false
  thresholds:
    cpu: 80
logging:
  level: debug
  json: true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":9090" || cfg.Simulator.Seed != 42 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Simulator.Lookback() != 3*24*time.Hour {
		t.Fatalf("unexpected lookback %s", cfg.Simulator.Lookback())
	}

	settings := cfg.Dashboard.Settings()
	if settings.TimeRange != models.RangeLast24Hours || settings.RefreshSeconds != 30 {
		t.Fatalf("dashboard defaults not applied: %v", settings)
	}
	if settings.AutoRefresh {
		t.Fatalf("autoRefresh override lost")
	}
	if settings.Thresholds.CPU != 80 || settings.Thresholds.Memory != 90 {
		t.Fatalf("threshold merge wrong: %v", settings.Thresholds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for a missing explicit config path")
	}
}

func TestLoadRejectsDegenerateDefaults(t *testing.T) {
	path := writeConfig(t, `
dashboard:
  thresholds:
    cpu: 70
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation to reject a threshold at the health baseline")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PLANTWATCH_SERVER_ADDRESS", ":7070")
	t.Setenv("PLANTWATCH_TIME_RANGE", "6h")
	t.Setenv("PLANTWATCH_THRESHOLD_TEMPERATURE", "80")
	t.Setenv("PLANTWATCH_AUTO_REFRESH", "false")
	t.Setenv("PLANTWATCH_SEED", "1234")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Address != ":7070" || cfg.Simulator.Seed != 1234 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	settings := cfg.Dashboard.Settings()
	if settings.TimeRange != models.RangeLast6Hours {
		t.Fatalf("time range override lost: %v", settings.TimeRange)
	}
	if settings.Thresholds.Temperature != 80 {
		t.Fatalf("threshold override lost: %v", settings.Thresholds)
	}
	if settings.AutoRefresh {
		t.Fatalf("auto refresh override lost")
	}
}
