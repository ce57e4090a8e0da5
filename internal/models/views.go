package models

import "time"

// KPI is the current reading of one metric, formatted for the dashboard.
type KPI struct {
	Key      string  `json:"key"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
	Delta    float64 `json:"delta"`
	HasDelta bool    `json:"has_delta"`
	Alert    bool    `json:"alert"`
}

// Alert is a fired threshold breach plus any advisor guidance.
type Alert struct {
	Metric    string   `json:"metric"`
	Message   string   `json:"message"`
	Value     float64  `json:"value"`
	Threshold float64  `json:"threshold"`
	Advice    []string `json:"advice,omitempty"`
}

// SystemGroup is one slice of the static fleet distribution chart.
type SystemGroup struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Overview is the snapshot pushed to dashboard clients on every refresh.
type Overview struct {
	SystemsMonitored int           `json:"systems_monitored"`
	Distribution     []SystemGroup `json:"distribution"`
	KPIs             []KPI         `json:"kpis"`
	Alerts           []Alert       `json:"alerts"`
	AlertCount       int           `json:"alert_count"`
	HealthScore      float64       `json:"health_score"`
	LastUpdate       time.Time     `json:"last_update"`
}

// MetricSummary aggregates one metric over the selected window.
type MetricSummary struct {
	Key     string  `json:"key"`
	Name    string  `json:"name"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Samples int     `json:"samples"`
}

// CorrelationMatrix is a symmetric Pearson matrix over the selected metrics.
type CorrelationMatrix struct {
	Keys   []string    `json:"keys"`
	Names  []string    `json:"names"`
	Values [][]float64 `json:"values"`
}

// EventKind enumerates the injected correlated fault scenarios.
type EventKind string

const (
	EventCPUSpike     EventKind = "cpu_spike"
	EventMemoryLeak   EventKind = "memory_leak"
	EventThermalIssue EventKind = "thermal_issue"
	EventNetworkBurst EventKind = "network_burst"
)

// EventKinds lists the injectable scenarios in selection order.
func EventKinds() []EventKind {
	return []EventKind{EventCPUSpike, EventMemoryLeak, EventThermalIssue, EventNetworkBurst}
}

// EventRecord captures one injected event for the events feed.
type EventRecord struct {
	Kind      EventKind          `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Deltas    map[string]float64 `json:"deltas"`
}
