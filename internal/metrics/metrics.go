package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	// PhaseBootstrap labels ticks generated while building initial history.
	PhaseBootstrap = "bootstrap"
	// PhaseExtend labels ticks generated during incremental extension.
	PhaseExtend = "extend"

	// OutcomeSuccess labels completed refresh cycles.
	OutcomeSuccess = "success"
	// OutcomeSkipped labels cycles that were no-ops (auto-refresh off).
	OutcomeSkipped = "skipped"
)

var (
	ticksGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantwatch",
			Name:      "ticks_generated_total",
			Help:      "Total telemetry ticks generated, partitioned by generation phase.",
		},
		[]string{"phase"},
	)

	eventsInjectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantwatch",
			Name:      "events_injected_total",
			Help:      "Total correlated fault events injected, partitioned by kind.",
		},
		[]string{"kind"},
	)

	refreshCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantwatch",
			Name:      "refresh_cycles_total",
			Help:      "Dashboard refresh cycles, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	refreshSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "plantwatch",
			Name:      "refresh_seconds",
			Help:      "Refresh cycle latency in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	activeAlerts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plantwatch",
			Name:      "active_alerts",
			Help:      "Alerts currently firing against configured thresholds.",
		},
	)

	healthScore = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plantwatch",
			Name:      "health_score",
			Help:      "Overall fleet health score in [0,100].",
		},
	)

	websocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plantwatch",
			Name:      "websocket_clients",
			Help:      "Dashboard clients connected for live updates.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plantwatch",
			Name:      "http_requests_total",
			Help:      "Dashboard API requests, partitioned by route and status code.",
		},
		[]string{"route", "code"},
	)
)

// Register attaches plantwatch collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		ticksGeneratedTotal,
		eventsInjectedTotal,
		refreshCyclesTotal,
		refreshSeconds,
		activeAlerts,
		healthScore,
		websocketClients,
		httpRequestsTotal,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// AddTicksGenerated counts freshly generated samples for a phase.
func AddTicksGenerated(phase string, n int) {
	if n <= 0 {
		return
	}
	ticksGeneratedTotal.WithLabelValues(phase).Add(float64(n))
}

// EventInjected counts one injected fault event.
func EventInjected(kind string) {
	eventsInjectedTotal.WithLabelValues(kind).Inc()
}

// ObserveRefresh records a refresh cycle duration and outcome label.
func ObserveRefresh(duration time.Duration, outcome string) {
	refreshCyclesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSkipped {
		return
	}
	if duration < 0 {
		duration = 0
	}
	refreshSeconds.Observe(duration.Seconds())
}

// SetActiveAlerts publishes the current alert count.
func SetActiveAlerts(n int) {
	activeAlerts.Set(float64(n))
}

// SetHealthScore publishes the current health score.
func SetHealthScore(score float64) {
	healthScore.Set(score)
}

// WebsocketClientDelta adjusts the connected client gauge.
func WebsocketClientDelta(delta int) {
	websocketClients.Add(float64(delta))
}

// CountHTTPRequest records one served API request.
func CountHTTPRequest(route string, status int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
