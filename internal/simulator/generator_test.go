package simulator

import (
	"testing"
	"time"

	"github.com/plantstack/plantwatch/internal/models"
	"github.com/plantstack/plantwatch/internal/stats"
)

// testClock is a controllable clock for pinning tick boundaries.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time { return c.current }

func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestGenerator(t *testing.T, lookback time.Duration) (*Generator, *testClock) {
	t.Helper()
	clock := &testClock{current: time.Date(2024, 3, 6, 14, 32, 11, 0, time.UTC)}
	gen := New(Config{Lookback: lookback, Seed: 1, Now: clock.Now})
	return gen, clock
}

func TestBootstrapSampleCount(t *testing.T) {
	gen, _ := newTestGenerator(t, DefaultLookback)

	// 7 days at 5-minute ticks, inclusive of both endpoints.
	want := 7*24*60/5 + 1
	if got := gen.Len(); got != want {
		t.Fatalf("expected %d bootstrap samples, got %d", want, got)
	}
}

func TestBoundsInvariant(t *testing.T) {
	gen, clock := newTestGenerator(t, DefaultLookback)
	clock.Advance(24 * time.Hour)
	series := gen.LatestData(models.RangeLast7Days)

	for _, sample := range series {
		for _, d := range models.Descriptors() {
			v := d.Value(&sample)
			if v < d.Min || v > d.Max {
				t.Fatalf("%s out of bounds at %s: %v not in [%v,%v]",
					d.Key, sample.Timestamp, v, d.Min, d.Max)
			}
		}
	}
}

func TestMonotonicFiveMinuteTicks(t *testing.T) {
	gen, clock := newTestGenerator(t, DefaultLookback)
	clock.Advance(3 * time.Hour)
	series := gen.LatestData(models.RangeLast7Days)

	for i := 1; i < len(series); i++ {
		gap := series[i].Timestamp.Sub(series[i-1].Timestamp)
		if gap != models.TickInterval {
			t.Fatalf("gap between samples %d and %d is %s, want %s", i-1, i, gap, models.TickInterval)
		}
	}
}

func TestExtensionConvergence(t *testing.T) {
	gen, clock := newTestGenerator(t, DefaultLookback)
	bootstrapNow := clock.current

	clock.Advance(17 * time.Minute)
	gen.Extend()

	series := gen.LatestData(models.RangeLast7Days)
	last, _ := series.Last()
	// Greatest tick at or before now: three whole ticks past the bootstrap end.
	want := bootstrapNow.Add(15 * time.Minute)
	if !last.Timestamp.Equal(want) {
		t.Fatalf("expected last tick %s, got %s", want, last.Timestamp)
	}

	before := gen.Len()
	gen.Extend()
	if gen.Len() != before {
		t.Fatalf("repeated extension with the same clock grew the series: %d -> %d", before, gen.Len())
	}
}

func TestWindowIdempotent(t *testing.T) {
	gen, _ := newTestGenerator(t, DefaultLookback)

	first := gen.Window(models.RangeLast6Hours)
	second := gen.Window(models.RangeLast6Hours)
	if len(first) != len(second) {
		t.Fatalf("window lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("window row %d differs between calls", i)
		}
	}
}

func TestWindowDoesNotExtend(t *testing.T) {
	gen, clock := newTestGenerator(t, DefaultLookback)
	before := gen.Len()
	clock.Advance(time.Hour)
	gen.Window(models.RangeLastHour)
	if gen.Len() != before {
		t.Fatalf("window extended the series: %d -> %d", before, gen.Len())
	}
}

func TestWindowLastHourSelection(t *testing.T) {
	gen, clock := newTestGenerator(t, DefaultLookback)
	series := gen.Window(models.RangeLastHour)

	// 12 intervals plus the boundary sample.
	if len(series) != 13 {
		t.Fatalf("expected 13 samples in the last hour, got %d", len(series))
	}
	start := clock.current.Add(-time.Hour)
	for _, sample := range series {
		if sample.Timestamp.Before(start) {
			t.Fatalf("sample %s outside window starting %s", sample.Timestamp, start)
		}
	}
}

func TestUnknownRangeFallsBackToWidest(t *testing.T) {
	gen, _ := newTestGenerator(t, DefaultLookback)

	fallback := gen.Window(models.ParseTimeRange("last fortnight"))
	widest := gen.Window(models.RangeLast7Days)
	if len(fallback) != len(widest) {
		t.Fatalf("fallback window has %d samples, widest has %d", len(fallback), len(widest))
	}
}

func TestCPUAndTemperatureCorrelatePositively(t *testing.T) {
	gen, _ := newTestGenerator(t, DefaultLookback)
	series := gen.Window(models.RangeLast7Days)
	if len(series) < 1000 {
		t.Fatalf("need at least 1000 samples, got %d", len(series))
	}

	cpuDesc, _ := models.DescriptorByKey("cpu_utilization")
	tempDesc, _ := models.DescriptorByKey("temperature")
	r := stats.Pearson(series.Values(cpuDesc), series.Values(tempDesc))
	if r <= 0 {
		t.Fatalf("expected positive CPU/temperature correlation, got %f", r)
	}
}

func TestThermalEventMagnitudeAndClipping(t *testing.T) {
	gen, _ := newTestGenerator(t, DefaultLookback)

	sample := models.Sample{
		Timestamp:   time.Date(2024, 3, 6, 15, 0, 0, 0, time.UTC),
		Temperature: 90,
	}
	gen.injectEvent(&sample, models.EventThermalIssue)

	events := gen.Events()
	if len(events) == 0 {
		t.Fatalf("expected the event to be journaled")
	}
	delta, ok := events[0].Deltas["temperature"]
	if !ok {
		t.Fatalf("thermal event recorded no temperature delta")
	}
	if delta < 10 || delta > 25 {
		t.Fatalf("thermal delta %f outside [10,25]", delta)
	}
	if sample.Temperature > 95 {
		t.Fatalf("post-event temperature %f exceeds bound", sample.Temperature)
	}
}

func TestEventJournalNewestFirstAndBounded(t *testing.T) {
	gen, clock := newTestGenerator(t, DefaultLookback)

	// Enough ticks that events fire and the journal wraps.
	clock.Advance(30 * 24 * time.Hour)
	gen.Extend()

	events := gen.Events()
	if len(events) == 0 {
		t.Fatalf("expected injected events over a 30 day extension")
	}
	if len(events) > eventJournalCap {
		t.Fatalf("journal holds %d events, cap is %d", len(events), eventJournalCap)
	}
	valid := map[models.EventKind]bool{}
	for _, kind := range models.EventKinds() {
		valid[kind] = true
	}
	for i, ev := range events {
		if !valid[ev.Kind] {
			t.Fatalf("unknown event kind %q", ev.Kind)
		}
		if i > 0 && ev.Timestamp.After(events[i-1].Timestamp) {
			t.Fatalf("events not ordered newest first at index %d", i)
		}
	}
}

func TestLatestDataExtendsThenWindows(t *testing.T) {
	gen, clock := newTestGenerator(t, DefaultLookback)
	clock.Advance(25 * time.Minute)

	series := gen.LatestData(models.RangeLast15Minutes)
	if len(series) == 0 {
		t.Fatalf("expected a non-empty window")
	}
	last, _ := series.Last()
	// 25 minutes is five whole ticks, so the series lands exactly on the clock.
	if !last.Timestamp.Equal(clock.current) {
		t.Fatalf("expected extension to reach %s, got %s", clock.current, last.Timestamp)
	}
	start := clock.current.Add(-15 * time.Minute)
	for _, sample := range series {
		if sample.Timestamp.Before(start) {
			t.Fatalf("sample %s outside requested window", sample.Timestamp)
		}
	}
}
