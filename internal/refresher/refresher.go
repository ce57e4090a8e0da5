// Package refresher drives the dashboard's update cadence: an explicit timer
// loop that pulls the latest telemetry, evaluates alerts, publishes the
// snapshot, and pushes it to live clients.
package refresher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/plantstack/plantwatch/internal/alerts"
	"github.com/plantstack/plantwatch/internal/metrics"
	"github.com/plantstack/plantwatch/internal/models"
	"github.com/plantstack/plantwatch/internal/simulator"
	"github.com/plantstack/plantwatch/internal/state"
	"github.com/plantstack/plantwatch/internal/utils"
)

// Publisher receives each refreshed overview for fan-out to live clients.
type Publisher interface {
	Publish(models.Overview)
}

// Refresher owns the periodic refresh cycle. It is the single writer of the
// state cell; carrying every cycle through one mutex keeps that true even
// when manual refreshes race the timer.
type Refresher struct {
	logger    *slog.Logger
	generator *simulator.Generator
	evaluator *alerts.Evaluator
	cell      *state.Cell
	publisher Publisher
	latencies *utils.LatencyTracker

	mu   sync.Mutex
	kick chan struct{}
}

// New constructs a Refresher. publisher may be nil.
func New(logger *slog.Logger, generator *simulator.Generator, evaluator *alerts.Evaluator, cell *state.Cell, publisher Publisher) *Refresher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		logger:    logger,
		generator: generator,
		evaluator: evaluator,
		cell:      cell,
		publisher: publisher,
		latencies: utils.NewLatencyTracker(1024),
		kick:      make(chan struct{}, 1),
	}
}

// Run executes refresh cycles until ctx is cancelled. The first cycle runs
// immediately so the dashboard never starts empty; afterwards the interval
// tracks the user-configured refresh rate. Cycles are advisory pacing only:
// polls faster than one tick apart are extension no-ops in the generator.
func (r *Refresher) Run(ctx context.Context) {
	r.RefreshNow()

	timer := time.NewTimer(r.interval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.kick:
			r.RefreshNow()
		case <-timer.C:
			settings := r.cell.Settings()
			if settings.AutoRefresh {
				r.RefreshNow()
			} else {
				metrics.ObserveRefresh(0, metrics.OutcomeSkipped)
			}
		}
		timer.Reset(r.interval())
	}
}

// Kick schedules an immediate refresh cycle without blocking.
func (r *Refresher) Kick() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// RefreshNow runs one full cycle synchronously and returns once the snapshot
// is published.
func (r *Refresher) RefreshNow() {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings := r.cell.Settings()
	start := time.Now()

	series := r.generator.LatestData(settings.TimeRange)
	eval := r.evaluator.Evaluate(series, settings)

	overview := models.Overview{
		SystemsMonitored: models.FleetSize,
		Distribution:     models.FleetDistribution(),
		KPIs:             eval.KPIs,
		Alerts:           eval.Alerts,
		AlertCount:       eval.AlertCount,
		HealthScore:      eval.HealthScore,
		LastUpdate:       start,
	}
	r.cell.SetData(series, overview, start)

	if r.publisher != nil && eval.Ready {
		r.publisher.Publish(overview)
	}

	duration := time.Since(start)
	metrics.ObserveRefresh(duration, metrics.OutcomeSuccess)
	metrics.SetActiveAlerts(eval.AlertCount)
	metrics.SetHealthScore(eval.HealthScore)

	r.latencies.Observe(duration)
	if count := r.latencies.Count(); count >= 20 && count%20 == 0 {
		r.logger.Info("refresh latency",
			slog.Duration("p95", r.latencies.Percentile(95)),
			slog.Int("samples", count))
	}
}

func (r *Refresher) interval() time.Duration {
	seconds := r.cell.Settings().RefreshSeconds
	if seconds <= 0 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}
