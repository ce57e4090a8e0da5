// Package simulator owns the synthetic telemetry stream: a growing table of
// five-minute samples bootstrapped over a lookback window and extended lazily
// toward "now" with per-metric stochastic processes and correlated fault
// events.
package simulator

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/plantstack/plantwatch/internal/models"
)

// DefaultLookback is the historical window built at construction.
const DefaultLookback = 7 * 24 * time.Hour

// eventJournalCap bounds the retained injected-event history.
const eventJournalCap = 256

// Config tunes generator construction. Zero values fall back to defaults.
type Config struct {
	// Lookback is the bootstrap history depth.
	Lookback time.Duration
	// Seed fixes the random source; 0 seeds from the wall clock.
	Seed int64
	// Now overrides the clock, used by tests to pin tick boundaries.
	Now func() time.Time
	// Logger receives generation progress; nil uses slog.Default.
	Logger *slog.Logger
}

// Generator produces and maintains the fleet telemetry series. All access to
// the series goes through the mutex: extension mutates in place and must not
// interleave with readers.
type Generator struct {
	mu     sync.Mutex
	series models.Series
	events []models.EventRecord
	rng    *rand.Rand
	now    func() time.Time
	logger *slog.Logger
}

// New constructs a Generator and bootstraps the historical series.
func New(cfg Config) *Generator {
	if cfg.Lookback <= 0 {
		cfg.Lookback = DefaultLookback
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	g := &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		now:    cfg.Now,
		logger: cfg.Logger,
	}
	g.series = g.bootstrap(cfg.Now(), cfg.Lookback)
	g.logger.Info("telemetry history bootstrapped",
		slog.Int("samples", len(g.series)),
		slog.Duration("lookback", cfg.Lookback))
	return g
}

// LatestData extends the series up to the current clock, then returns the
// samples inside the requested window. Extend-then-window runs as one
// critical section.
func (g *Generator) LatestData(r models.TimeRange) models.Series {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	g.extendLocked(now)
	return g.windowLocked(now, r)
}

// Window returns the samples inside the requested window without extending
// the series. Pure with respect to the stored series and clock.
func (g *Generator) Window(r models.TimeRange) models.Series {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.windowLocked(g.now(), r)
}

// Extend backfills missing ticks up to the current clock without windowing.
func (g *Generator) Extend() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.extendLocked(g.now())
}

// Len reports the number of stored samples.
func (g *Generator) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.series)
}

// Events returns the retained injected-event journal, newest first.
func (g *Generator) Events() []models.EventRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.EventRecord, len(g.events))
	for i, ev := range g.events {
		out[len(g.events)-1-i] = ev
	}
	return out
}

func (g *Generator) windowLocked(now time.Time, r models.TimeRange) models.Series {
	start := now.Add(-r.Duration())
	lo := len(g.series)
	for i, s := range g.series {
		if !s.Timestamp.Before(start) {
			lo = i
			break
		}
	}
	out := make(models.Series, len(g.series)-lo)
	copy(out, g.series[lo:])
	return out
}

func (g *Generator) recordEventLocked(ev models.EventRecord) {
	g.events = append(g.events, ev)
	if len(g.events) > eventJournalCap {
		g.events = g.events[len(g.events)-eventJournalCap:]
	}
}

func (g *Generator) gaussian(sigma float64) float64 {
	return g.rng.NormFloat64() * sigma
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}
