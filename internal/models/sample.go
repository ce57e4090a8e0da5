package models

import "time"

// TickInterval is the fixed sampling granularity of the simulated fleet.
const TickInterval = 5 * time.Minute

// Sample is one row of fleet-wide telemetry at a single tick.
type Sample struct {
	Timestamp        time.Time `json:"timestamp"`
	CPUUtilization   float64   `json:"cpu_utilization"`
	MemoryUsage      float64   `json:"memory_usage"`
	DiskIO           float64   `json:"disk_io"`
	NetworkTraffic   float64   `json:"network_traffic"`
	Temperature      float64   `json:"temperature"`
	PowerConsumption float64   `json:"power_consumption"`
}

// Series is an ordered run of Samples, strictly increasing by timestamp
// with exactly one TickInterval between adjacent rows.
type Series []Sample

// Last returns the final sample and true, or a zero sample and false when empty.
func (s Series) Last() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// Values extracts one metric column from the series.
func (s Series) Values(d MetricDescriptor) []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = d.Value(&s[i])
	}
	return out
}
