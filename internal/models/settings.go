package models

import "fmt"

// Health-score baselines. Thresholds must sit strictly above these so the
// score's band divisions never degenerate.
const (
	CPUScoreBaseline         = 70.0
	MemoryScoreBaseline      = 70.0
	TemperatureScoreBaseline = 50.0
)

// Thresholds carries the user-configured alert levels.
type Thresholds struct {
	CPU         float64 `json:"cpu" yaml:"cpu"`
	Memory      float64 `json:"memory" yaml:"memory"`
	Temperature float64 `json:"temperature" yaml:"temperature"`
}

// ForBinding returns the threshold bound to an alert binding, or false when
// the binding carries no alerting.
func (t Thresholds) ForBinding(b AlertBinding) (float64, bool) {
	switch b {
	case AlertCPU:
		return t.CPU, true
	case AlertMemory:
		return t.Memory, true
	case AlertTemperature:
		return t.Temperature, true
	default:
		return 0, false
	}
}

// Settings is the dashboard configuration owned by the presentation layer.
// It never reaches into the generator's stochastic parameters.
type Settings struct {
	TimeRange      TimeRange  `json:"time_range"`
	Metrics        []string   `json:"metrics"`
	Thresholds     Thresholds `json:"thresholds"`
	RefreshSeconds int        `json:"refresh_seconds"`
	AutoRefresh    bool       `json:"auto_refresh"`
}

// DefaultSettings mirrors the dashboard's initial sidebar state.
func DefaultSettings() Settings {
	return Settings{
		TimeRange:      RangeLastHour,
		Metrics:        []string{"cpu_utilization", "memory_usage", "network_traffic", "temperature"},
		Thresholds:     Thresholds{CPU: 85, Memory: 90, Temperature: 75},
		RefreshSeconds: 10,
		AutoRefresh:    true,
	}
}

// Validate rejects settings that would break alerting or the health gauge.
func (s Settings) Validate() error {
	if _, ok := rangeDurations[s.TimeRange]; !ok {
		return fmt.Errorf("unknown time range %q", s.TimeRange)
	}
	if len(s.Metrics) == 0 {
		return fmt.Errorf("at least one metric must be selected")
	}
	for _, key := range s.Metrics {
		if _, ok := DescriptorByKey(key); !ok {
			return fmt.Errorf("unknown metric %q", key)
		}
	}
	if s.Thresholds.CPU <= CPUScoreBaseline || s.Thresholds.CPU > 100 {
		return fmt.Errorf("cpu threshold must be in (%v, 100]", CPUScoreBaseline)
	}
	if s.Thresholds.Memory <= MemoryScoreBaseline || s.Thresholds.Memory > 100 {
		return fmt.Errorf("memory threshold must be in (%v, 100]", MemoryScoreBaseline)
	}
	if s.Thresholds.Temperature <= TemperatureScoreBaseline || s.Thresholds.Temperature > 100 {
		return fmt.Errorf("temperature threshold must be in (%v, 100]", TemperatureScoreBaseline)
	}
	if s.RefreshSeconds < 5 || s.RefreshSeconds > 60 {
		return fmt.Errorf("refresh interval must be between 5 and 60 seconds")
	}
	return nil
}

// SelectsMetric reports whether the given key is part of the selected subset.
func (s Settings) SelectsMetric(key string) bool {
	for _, k := range s.Metrics {
		if k == key {
			return true
		}
	}
	return false
}
