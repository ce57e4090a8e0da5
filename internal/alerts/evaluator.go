// Package alerts derives threshold alerts, KPI cards, and the fleet health
// score from the latest windowed telemetry.
package alerts

import (
	"fmt"
	"log/slog"

	"github.com/plantstack/plantwatch/internal/models"
)

// scoreBand describes how far a metric may run past its comfort baseline
// before it consumes its full weight of the health score.
type scoreBand struct {
	baseline float64
	weight   float64
}

var scoreBands = map[models.AlertBinding]scoreBand{
	models.AlertCPU:         {baseline: models.CPUScoreBaseline, weight: 30},
	models.AlertMemory:      {baseline: models.MemoryScoreBaseline, weight: 25},
	models.AlertTemperature: {baseline: models.TemperatureScoreBaseline, weight: 35},
}

// Evaluation is the alerting output for one refresh cycle.
type Evaluation struct {
	Ready       bool
	KPIs        []models.KPI
	Alerts      []models.Alert
	AlertCount  int
	HealthScore float64
}

// Evaluator turns windowed telemetry plus user settings into alert state.
type Evaluator struct {
	advisor *Advisor
	logger  *slog.Logger
}

// NewEvaluator constructs an Evaluator; advisor may be nil.
func NewEvaluator(logger *slog.Logger, advisor *Advisor) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{advisor: advisor, logger: logger}
}

// Evaluate inspects the most recent sample against the configured thresholds.
// An empty series yields a not-ready evaluation; callers defer derived views
// until data exists.
func (e *Evaluator) Evaluate(series models.Series, settings models.Settings) Evaluation {
	latest, ok := series.Last()
	if !ok {
		return Evaluation{}
	}

	var prev *models.Sample
	if len(series) > 1 {
		prev = &series[len(series)-2]
	}

	eval := Evaluation{Ready: true, HealthScore: 100}
	for _, d := range models.Descriptors() {
		if !settings.SelectsMetric(d.Key) {
			continue
		}
		value := d.Value(&latest)

		kpi := models.KPI{
			Key:     d.Key,
			Name:    d.Name,
			Value:   value,
			Display: d.Format(value),
		}
		if prev != nil && d.ShowDelta {
			kpi.Delta = value - d.Value(prev)
			kpi.HasDelta = true
		}

		threshold, alertable := settings.Thresholds.ForBinding(d.Alert)
		if alertable && value >= threshold {
			kpi.Alert = true
			alert := models.Alert{
				Metric:    d.Key,
				Message:   fmt.Sprintf("High %s: %s", d.Name, kpi.Display),
				Value:     value,
				Threshold: threshold,
				Advice:    e.advisor.Advise(d.Key, value-threshold),
			}
			eval.Alerts = append(eval.Alerts, alert)
		}

		if band, scored := scoreBands[d.Alert]; scored && alertable {
			eval.HealthScore -= band.reduction(value, threshold)
		}

		eval.KPIs = append(eval.KPIs, kpi)
	}

	eval.AlertCount = len(eval.Alerts)
	if eval.HealthScore < 0 {
		eval.HealthScore = 0
	}
	if eval.HealthScore > 100 {
		eval.HealthScore = 100
	}
	return eval
}

// reduction scales the overshoot past the baseline into this band's share of
// the health score. Settings validation keeps threshold above baseline; the
// denominator floor is a second line of defence.
func (b scoreBand) reduction(value, threshold float64) float64 {
	denom := threshold - b.baseline
	if denom <= 0 {
		denom = 1
	}
	r := (value - b.baseline) / denom * b.weight
	if r < 0 {
		return 0
	}
	return r
}
