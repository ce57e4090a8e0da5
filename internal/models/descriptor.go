package models

import "fmt"

// AlertBinding names which user-configured threshold applies to a metric.
type AlertBinding string

const (
	AlertNone        AlertBinding = ""
	AlertCPU         AlertBinding = "cpu"
	AlertMemory      AlertBinding = "memory"
	AlertTemperature AlertBinding = "temperature"
)

// ProcessKind selects the stochastic model used to extend a metric tick by tick.
type ProcessKind int

const (
	// ProcessMeanReverting pulls each step toward Mean by a factor of 0.1.
	ProcessMeanReverting ProcessKind = iota
	// ProcessDriftWalk is a random walk with constant Drift per tick.
	ProcessDriftWalk
)

// MetricDescriptor describes one telemetry metric: identity, display rules,
// bound range, and the parameters of its incremental generation process.
// All per-metric behaviour is driven from these records rather than
// branching on metric names.
type MetricDescriptor struct {
	Key  string
	Name string
	Unit string

	Min float64
	Max float64

	Process    ProcessKind
	Mean       float64
	Drift      float64
	Volatility float64

	Alert     AlertBinding
	ShowDelta bool

	Value    func(*Sample) float64
	SetValue func(*Sample, float64)
	Format   func(float64) string
}

// Clip bounds v to the descriptor's declared range.
func (d MetricDescriptor) Clip(v float64) float64 {
	if v < d.Min {
		return d.Min
	}
	if v > d.Max {
		return d.Max
	}
	return v
}

var descriptors = []MetricDescriptor{
	{
		Key: "cpu_utilization", Name: "CPU Utilization", Unit: "%",
		Min: 0, Max: 100,
		Process: ProcessMeanReverting, Mean: 60, Volatility: 5,
		Alert: AlertCPU, ShowDelta: true,
		Value:    func(s *Sample) float64 { return s.CPUUtilization },
		SetValue: func(s *Sample, v float64) { s.CPUUtilization = v },
		Format:   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	},
	{
		Key: "memory_usage", Name: "Memory Usage", Unit: "%",
		Min: 0, Max: 100,
		Process: ProcessDriftWalk, Drift: 0.1, Volatility: 1,
		Alert: AlertMemory, ShowDelta: true,
		Value:    func(s *Sample) float64 { return s.MemoryUsage },
		SetValue: func(s *Sample, v float64) { s.MemoryUsage = v },
		Format:   func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	},
	{
		Key: "disk_io", Name: "Disk I/O", Unit: "IOPS",
		Min: 0, Max: 10000,
		Process: ProcessMeanReverting, Mean: 2000, Volatility: 200,
		Value:    func(s *Sample) float64 { return s.DiskIO },
		SetValue: func(s *Sample, v float64) { s.DiskIO = v },
		Format:   func(v float64) string { return FormatNumber(v) + " IOPS" },
	},
	{
		Key: "network_traffic", Name: "Network Traffic", Unit: "MB/s",
		Min: 0, Max: 500,
		Process: ProcessMeanReverting, Mean: 100, Volatility: 20,
		Value:    func(s *Sample) float64 { return s.NetworkTraffic },
		SetValue: func(s *Sample, v float64) { s.NetworkTraffic = v },
		Format:   func(v float64) string { return FormatNumber(v) + " MB/s" },
	},
	{
		Key: "temperature", Name: "Temperature", Unit: "°C",
		Min: 30, Max: 95,
		Process: ProcessMeanReverting, Mean: 55, Volatility: 2,
		Alert: AlertTemperature, ShowDelta: true,
		Value:    func(s *Sample) float64 { return s.Temperature },
		SetValue: func(s *Sample, v float64) { s.Temperature = v },
		Format:   func(v float64) string { return fmt.Sprintf("%.1f°C", v) },
	},
	{
		Key: "power_consumption", Name: "Power Consumption", Unit: "kW",
		Min: 3, Max: 20,
		Process: ProcessMeanReverting, Mean: 10, Volatility: 0.5,
		Value:    func(s *Sample) float64 { return s.PowerConsumption },
		SetValue: func(s *Sample, v float64) { s.PowerConsumption = v },
		Format:   func(v float64) string { return FormatNumber(v) + " kW" },
	},
}

// Descriptors returns the six fleet metrics in canonical display order.
func Descriptors() []MetricDescriptor {
	return descriptors
}

// DescriptorByKey resolves a descriptor by its wire key.
func DescriptorByKey(key string) (MetricDescriptor, bool) {
	for _, d := range descriptors {
		if d.Key == key {
			return d, true
		}
	}
	return MetricDescriptor{}, false
}

// MetricKeys returns all metric keys in canonical order.
func MetricKeys() []string {
	keys := make([]string, len(descriptors))
	for i, d := range descriptors {
		keys[i] = d.Key
	}
	return keys
}

// FormatNumber renders a value for KPI display, abbreviating thousands.
func FormatNumber(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1fk", v/1000)
	}
	return fmt.Sprintf("%.1f", v)
}
