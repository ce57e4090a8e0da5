package simulator

import (
	"math"
	"time"

	"github.com/plantstack/plantwatch/internal/metrics"
	"github.com/plantstack/plantwatch/internal/models"
)

// Bootstrap shape parameters. The diurnal cycle peaks mid-day; traffic and
// power fall off on weekends.
const (
	cpuSpikeProb     = 0.03
	diskBurstProb    = 0.05
	memResetInterval = 250.0
)

// bootstrap builds one sample per tick from now-lookback through now. The
// tick grid is anchored at the bootstrap instant, so the final sample lands
// exactly on now.
func (g *Generator) bootstrap(now time.Time, lookback time.Duration) models.Series {
	start := now.Add(-lookback)
	n := int(lookback/models.TickInterval) + 1
	series := make(models.Series, 0, n)

	// Running random-walk levels. The memory walk re-bases itself at reset
	// points instead of rewriting already-emitted history.
	memLevel := 60.0
	diskLevel := 1500.0

	for ts := start; !ts.After(now); ts = ts.Add(models.TickInterval) {
		diurnal := math.Sin(float64(ts.Hour()) * math.Pi / 12)
		weekday := weekdayFactor(ts)

		cpu := diurnal*15 + 55 + g.gaussian(5)
		if g.rng.Float64() < cpuSpikeProb {
			cpu += g.uniform(15, 30)
		}

		memLevel += g.gaussian(0.5) * 0.1
		if g.rng.Float64() < 1/memResetInterval {
			// Restart or cleanup: the walk re-bases toward a fresh baseline.
			memLevel = 60 + g.gaussian(5)
		}
		mem := clamp(memLevel, 40, 95)

		diskLevel += g.gaussian(50) * 0.1
		disk := clamp(diskLevel, 500, 5000)
		if g.rng.Float64() < diskBurstProb {
			disk += g.uniform(1000, 3000)
		}

		network := 50 + 30*diurnal*weekday + g.rng.ExpFloat64()*20

		// Temperature and power couple to the pre-clip CPU and temperature
		// values of the same tick so the designed correlation survives.
		temp := 45 + 5*diurnal + (cpu-50)*0.2 + g.gaussian(2)
		power := 8 + 2*diurnal*weekday + (cpu-50)*0.05 + (temp-50)*0.03 + g.gaussian(0.5)

		sample := models.Sample{
			Timestamp:        ts,
			CPUUtilization:   cpu,
			MemoryUsage:      mem,
			DiskIO:           disk,
			NetworkTraffic:   network,
			Temperature:      temp,
			PowerConsumption: power,
		}
		clipSample(&sample)
		series = append(series, sample)
	}

	metrics.AddTicksGenerated(metrics.PhaseBootstrap, len(series))
	return series
}

func weekdayFactor(ts time.Time) float64 {
	switch ts.Weekday() {
	case time.Saturday, time.Sunday:
		return 0.5
	default:
		return 1.0
	}
}

// clipSample bounds every field to its descriptor range, in canonical order.
func clipSample(s *models.Sample) {
	for _, d := range models.Descriptors() {
		d.SetValue(s, d.Clip(d.Value(s)))
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
