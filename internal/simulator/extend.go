package simulator

import (
	"time"

	"github.com/plantstack/plantwatch/internal/metrics"
	"github.com/plantstack/plantwatch/internal/models"
	"github.com/plantstack/plantwatch/internal/utils"
)

// Probability that any newly generated tick carries a correlated fault event.
const eventProb = 0.05

// reversionRate is the pull applied toward a metric's mean each tick.
const reversionRate = 0.1

// extendLocked appends one sample per missing tick up to the greatest tick
// boundary at or before now. Caller must hold g.mu.
func (g *Generator) extendLocked(now time.Time) {
	last, ok := g.series.Last()
	if !ok {
		return
	}

	missing := utils.TicksBetween(last.Timestamp, now, models.TickInterval)
	if missing == 0 {
		return
	}

	prev := last
	for i := 1; i <= missing; i++ {
		sample := g.nextSample(prev, last.Timestamp.Add(time.Duration(i)*models.TickInterval))
		g.series = append(g.series, sample)
		prev = sample
	}

	metrics.AddTicksGenerated(metrics.PhaseExtend, missing)
	g.logger.Debug("series extended",
		"ticks", missing,
		"last", prev.Timestamp)
}

// nextSample derives one tick from its predecessor: each metric steps by its
// descriptor's process and is clipped immediately, then at most one event is
// injected on the bounded values and the affected fields are re-clipped.
func (g *Generator) nextSample(prev models.Sample, ts time.Time) models.Sample {
	sample := models.Sample{Timestamp: ts}
	for _, d := range models.Descriptors() {
		current := d.Value(&prev)
		var next float64
		switch d.Process {
		case models.ProcessDriftWalk:
			next = current + d.Drift + g.gaussian(d.Volatility)
		default:
			next = current + (d.Mean-current)*reversionRate + g.gaussian(d.Volatility)
		}
		d.SetValue(&sample, d.Clip(next))
	}

	if g.rng.Float64() < eventProb {
		kinds := models.EventKinds()
		g.injectEvent(&sample, kinds[g.rng.Intn(len(kinds))])
	}
	return sample
}

// injectEvent applies one correlated fault scenario to the sample, records it
// in the journal, and re-clips the touched fields.
func (g *Generator) injectEvent(s *models.Sample, kind models.EventKind) {
	deltas := make(map[string]float64, 2)

	switch kind {
	case models.EventCPUSpike:
		deltas["cpu_utilization"] = g.uniform(10, 30)
		deltas["temperature"] = g.uniform(5, 15)
		deltas["power_consumption"] = g.uniform(1, 3)
	case models.EventMemoryLeak:
		deltas["memory_usage"] = g.uniform(5, 15)
	case models.EventThermalIssue:
		deltas["temperature"] = g.uniform(10, 25)
	case models.EventNetworkBurst:
		deltas["network_traffic"] = g.uniform(50, 150)
		deltas["cpu_utilization"] = g.uniform(5, 15)
	}

	for key, delta := range deltas {
		d, ok := models.DescriptorByKey(key)
		if !ok {
			continue
		}
		d.SetValue(s, d.Clip(d.Value(s)+delta))
	}

	g.recordEventLocked(models.EventRecord{Kind: kind, Timestamp: s.Timestamp, Deltas: deltas})
	metrics.EventInjected(string(kind))
}
