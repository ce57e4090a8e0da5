package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/plantstack/plantwatch/internal/models"
	"github.com/plantstack/plantwatch/internal/utils"
)

// Config captures the settings required to boot the plantwatch service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig controls the HTTP listener behaviour.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// SimulatorConfig controls the synthetic telemetry generator.
type SimulatorConfig struct {
	LookbackDays int   `yaml:"lookbackDays"`
	Seed         int64 `yaml:"seed"`
}

// Lookback returns the bootstrap history depth.
func (c SimulatorConfig) Lookback() time.Duration {
	days := c.LookbackDays
	if days <= 0 {
		days = 7
	}
	return time.Duration(days) * 24 * time.Hour
}

// DashboardConfig seeds the initial dashboard settings; users adjust them at
// runtime through the settings API.
type DashboardConfig struct {
	TimeRange      string            `yaml:"timeRange"`
	Metrics        []string          `yaml:"metrics"`
	RefreshSeconds int               `yaml:"refreshSeconds"`
	AutoRefresh    *bool             `yaml:"autoRefresh"`
	Thresholds     models.Thresholds `yaml:"thresholds"`
}

// Settings converts the configured defaults into runtime dashboard settings.
func (c DashboardConfig) Settings() models.Settings {
	settings := models.DefaultSettings()
	if c.TimeRange != "" {
		settings.TimeRange = models.ParseTimeRange(c.TimeRange)
	}
	if len(c.Metrics) > 0 {
		settings.Metrics = append([]string(nil), c.Metrics...)
	}
	if c.RefreshSeconds > 0 {
		settings.RefreshSeconds = c.RefreshSeconds
	}
	if c.AutoRefresh != nil {
		settings.AutoRefresh = *c.AutoRefresh
	}
	if c.Thresholds.CPU > 0 {
		settings.Thresholds.CPU = c.Thresholds.CPU
	}
	if c.Thresholds.Memory > 0 {
		settings.Thresholds.Memory = c.Thresholds.Memory
	}
	if c.Thresholds.Temperature > 0 {
		settings.Thresholds.Temperature = c.Thresholds.Temperature
	}
	return settings
}

// AlertsConfig controls rule-pack loading for the alert advisor.
type AlertsConfig struct {
	RulesPath  string `yaml:"rulesPath"`
	WatchRules bool   `yaml:"watchRules"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("PLANTWATCH_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, utils.NewAppError("config.load", fmt.Sprintf("config file %s not found", path), err)
			}
			return nil, utils.NewAppError("config.load", "read config", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, utils.NewAppError("config.load", "parse config", err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Dashboard.Settings().Validate(); err != nil {
		return nil, fmt.Errorf("dashboard defaults: %w", err)
	}
	return &cfg, nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			MetricsAddress:  ":2112",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    15 * time.Second,
			GracefulTimeout: 10 * time.Second,
		},
		Simulator: SimulatorConfig{LookbackDays: 7},
		Alerts:    AlertsConfig{RulesPath: "configs/alerts/default.yaml"},
		Logging:   LoggingConfig{Level: "info", JSON: false},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLANTWATCH_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("PLANTWATCH_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("PLANTWATCH_LOOKBACK_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			cfg.Simulator.LookbackDays = days
		}
	}
	if v := os.Getenv("PLANTWATCH_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulator.Seed = seed
		}
	}
	if v := os.Getenv("PLANTWATCH_TIME_RANGE"); v != "" {
		cfg.Dashboard.TimeRange = v
	}
	if v := os.Getenv("PLANTWATCH_REFRESH_SECONDS"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.RefreshSeconds = seconds
		}
	}
	if v := os.Getenv("PLANTWATCH_AUTO_REFRESH"); v != "" {
		enabled := strings.EqualFold(v, "true") || v == "1"
		cfg.Dashboard.AutoRefresh = &enabled
	}
	if v := os.Getenv("PLANTWATCH_THRESHOLD_CPU"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dashboard.Thresholds.CPU = f
		}
	}
	if v := os.Getenv("PLANTWATCH_THRESHOLD_MEMORY"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dashboard.Thresholds.Memory = f
		}
	}
	if v := os.Getenv("PLANTWATCH_THRESHOLD_TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dashboard.Thresholds.Temperature = f
		}
	}
	if v := os.Getenv("PLANTWATCH_RULES_PATH"); v != "" {
		cfg.Alerts.RulesPath = v
	}
	if v := os.Getenv("PLANTWATCH_RULES_WATCH"); v != "" {
		cfg.Alerts.WatchRules = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("PLANTWATCH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PLANTWATCH_LOG_FORMAT"); v == "json" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("PLANTWATCH_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if v := os.Getenv("PLANTWATCH_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if v := os.Getenv("PLANTWATCH_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
}
