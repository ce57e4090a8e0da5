package alerts

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/plantstack/plantwatch/internal/models"
)

func twoTickSeries(prev, latest models.Sample) models.Series {
	base := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	prev.Timestamp = base
	latest.Timestamp = base.Add(models.TickInterval)
	return models.Series{prev, latest}
}

func TestEvaluateFiresThresholdAlerts(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	settings := models.DefaultSettings()
	settings.Metrics = models.MetricKeys()

	series := twoTickSeries(
		models.Sample{CPUUtilization: 60, MemoryUsage: 70, Temperature: 55},
		models.Sample{CPUUtilization: 91, MemoryUsage: 95, Temperature: 60, NetworkTraffic: 120, DiskIO: 1500, PowerConsumption: 9},
	)

	eval := evaluator.Evaluate(series, settings)
	if !eval.Ready {
		t.Fatalf("expected evaluation to be ready")
	}
	if eval.AlertCount != 2 {
		t.Fatalf("expected CPU and memory alerts, got %d", eval.AlertCount)
	}
	if !strings.Contains(eval.Alerts[0].Message, "High CPU Utilization") {
		t.Fatalf("unexpected alert message %q", eval.Alerts[0].Message)
	}
}

func TestEvaluateAlertAtExactThreshold(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	settings := models.DefaultSettings()

	series := twoTickSeries(
		models.Sample{CPUUtilization: 60},
		models.Sample{CPUUtilization: settings.Thresholds.CPU},
	)

	eval := evaluator.Evaluate(series, settings)
	if eval.AlertCount != 1 {
		t.Fatalf("value equal to threshold should alert, got %d alerts", eval.AlertCount)
	}
}

func TestEvaluateKPIsAndDeltas(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	settings := models.DefaultSettings()
	settings.Metrics = []string{"cpu_utilization", "disk_io"}

	series := twoTickSeries(
		models.Sample{CPUUtilization: 50, DiskIO: 1400},
		models.Sample{CPUUtilization: 52.5, DiskIO: 1500},
	)

	eval := evaluator.Evaluate(series, settings)
	if len(eval.KPIs) != 2 {
		t.Fatalf("expected 2 KPIs, got %d", len(eval.KPIs))
	}

	cpu := eval.KPIs[0]
	if cpu.Display != "52.5%" {
		t.Fatalf("unexpected CPU display %q", cpu.Display)
	}
	if !cpu.HasDelta || math.Abs(cpu.Delta-2.5) > 1e-9 {
		t.Fatalf("expected CPU delta 2.5, got %v (has=%v)", cpu.Delta, cpu.HasDelta)
	}

	disk := eval.KPIs[1]
	if disk.HasDelta {
		t.Fatalf("disk KPI should not carry a delta")
	}
	if disk.Display != "1.5k IOPS" {
		t.Fatalf("unexpected disk display %q", disk.Display)
	}
}

func TestEvaluateHealthScore(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	settings := models.DefaultSettings()
	settings.Metrics = []string{"cpu_utilization", "memory_usage", "temperature"}
	settings.Thresholds = models.Thresholds{CPU: 85, Memory: 90, Temperature: 75}

	// CPU at 77: (77-70)/(85-70)*30 = 14. Memory and temperature at baseline.
	series := twoTickSeries(
		models.Sample{CPUUtilization: 70, MemoryUsage: 70, Temperature: 50},
		models.Sample{CPUUtilization: 77, MemoryUsage: 70, Temperature: 50},
	)

	eval := evaluator.Evaluate(series, settings)
	if math.Abs(eval.HealthScore-86) > 1e-9 {
		t.Fatalf("expected health score 86, got %f", eval.HealthScore)
	}
}

func TestEvaluateHealthScoreClampsAtZero(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	settings := models.DefaultSettings()
	settings.Metrics = []string{"cpu_utilization", "memory_usage", "temperature"}
	settings.Thresholds = models.Thresholds{CPU: 71, Memory: 71, Temperature: 51}

	series := twoTickSeries(
		models.Sample{},
		models.Sample{CPUUtilization: 100, MemoryUsage: 100, Temperature: 95},
	)

	eval := evaluator.Evaluate(series, settings)
	if eval.HealthScore != 0 {
		t.Fatalf("expected health score clamped to 0, got %f", eval.HealthScore)
	}
}

func TestEvaluateBelowBaselineKeepsFullScore(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	settings := models.DefaultSettings()
	settings.Metrics = []string{"cpu_utilization", "memory_usage", "temperature"}

	series := twoTickSeries(
		models.Sample{},
		models.Sample{CPUUtilization: 40, MemoryUsage: 50, Temperature: 45},
	)

	eval := evaluator.Evaluate(series, settings)
	if eval.HealthScore != 100 {
		t.Fatalf("expected full health score, got %f", eval.HealthScore)
	}
}

func TestEvaluateEmptySeriesNotReady(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	eval := evaluator.Evaluate(nil, models.DefaultSettings())
	if eval.Ready {
		t.Fatalf("empty series must not produce a ready evaluation")
	}
	if eval.AlertCount != 0 || len(eval.KPIs) != 0 {
		t.Fatalf("empty series must not derive alerts or KPIs")
	}
}

func TestEvaluateSkipsUnselectedMetrics(t *testing.T) {
	evaluator := NewEvaluator(nil, nil)
	settings := models.DefaultSettings()
	settings.Metrics = []string{"network_traffic"}

	series := twoTickSeries(
		models.Sample{},
		models.Sample{CPUUtilization: 99, NetworkTraffic: 100},
	)

	eval := evaluator.Evaluate(series, settings)
	if eval.AlertCount != 0 {
		t.Fatalf("unselected CPU must not alert, got %d", eval.AlertCount)
	}
	if len(eval.KPIs) != 1 || eval.KPIs[0].Key != "network_traffic" {
		t.Fatalf("expected only the network KPI, got %v", eval.KPIs)
	}
}
