package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/plantstack/plantwatch/internal/metrics"
	"github.com/plantstack/plantwatch/internal/models"
	"github.com/plantstack/plantwatch/internal/simulator"
	"github.com/plantstack/plantwatch/internal/state"
	"github.com/plantstack/plantwatch/internal/stats"
)

// RefreshTrigger lets handlers force an immediate refresh cycle.
type RefreshTrigger interface {
	RefreshNow()
}

// Handlers serves the dashboard API on top of the shared state cell and the
// telemetry generator.
type Handlers struct {
	logger    *slog.Logger
	generator *simulator.Generator
	cell      *state.Cell
	refresher RefreshTrigger
	hub       *Hub
}

// NewHandlers constructs the API handler set.
func NewHandlers(logger *slog.Logger, generator *simulator.Generator, cell *state.Cell, refresher RefreshTrigger, hub *Hub) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		logger:    logger,
		generator: generator,
		cell:      cell,
		refresher: refresher,
		hub:       hub,
	}
}

// Router builds the dashboard route table.
func (h *Handlers) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(countRequests)

	r.HandleFunc("/healthz", h.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/metrics", h.handleMetrics).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/overview", h.handleOverview).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/summary", h.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/correlation", h.handleCorrelation).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/events", h.handleEvents).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/settings", h.handleGetSettings).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/settings", h.handlePutSettings).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/refresh", h.handleRefresh).Methods(http.MethodPost)
	if h.hub != nil {
		r.HandleFunc("/ws", h.hub.HandleWS).Methods(http.MethodGet)
	}
	r.HandleFunc("/", h.handleIndex).Methods(http.MethodGet)
	return r
}

func (h *Handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleMetrics performs extend-then-window and returns the rows for the
// selected metric subset.
func (h *Handlers) handleMetrics(w http.ResponseWriter, r *http.Request) {
	timeRange := h.requestRange(r)
	selected := h.requestMetrics(r)

	series := h.generator.LatestData(timeRange)

	rows := make([]map[string]any, len(series))
	descriptors := selectedDescriptors(selected)
	for i := range series {
		row := make(map[string]any, len(descriptors)+1)
		row["timestamp"] = series[i].Timestamp
		for _, d := range descriptors {
			row[d.Key] = d.Value(&series[i])
		}
		rows[i] = row
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"range":   timeRange,
		"metrics": selected,
		"samples": rows,
	})
}

func (h *Handlers) handleOverview(w http.ResponseWriter, r *http.Request) {
	snapshot := h.cell.Snapshot()
	if snapshot.LastUpdate.IsZero() || len(snapshot.Series) == 0 {
		writeError(w, http.StatusServiceUnavailable, "data not yet available")
		return
	}
	writeJSON(w, http.StatusOK, snapshot.Overview)
}

func (h *Handlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	timeRange := h.requestRange(r)
	selected := h.requestMetrics(r)

	series := h.generator.LatestData(timeRange)
	if len(series) == 0 {
		writeError(w, http.StatusServiceUnavailable, "data not yet available")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"range":     timeRange,
		"summaries": stats.Summaries(series, selected),
	})
}

func (h *Handlers) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	timeRange := h.requestRange(r)
	selected := h.requestMetrics(r)
	if len(selected) < 2 {
		writeError(w, http.StatusBadRequest, "select at least two metrics to correlate")
		return
	}

	series := h.generator.LatestData(timeRange)
	if len(series) == 0 {
		writeError(w, http.StatusServiceUnavailable, "data not yet available")
		return
	}

	writeJSON(w, http.StatusOK, stats.CorrelationMatrix(series, selected))
}

func (h *Handlers) handleEvents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"events": h.generator.Events()})
}

func (h *Handlers) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cell.Settings())
}

func (h *Handlers) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid settings payload")
		return
	}
	if err := settings.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.cell.SetSettings(settings)
	if h.refresher != nil {
		h.refresher.RefreshNow()
	}
	h.logger.Info("dashboard settings updated",
		slog.String("range", string(settings.TimeRange)),
		slog.Int("metrics", len(settings.Metrics)))
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handlers) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher != nil {
		h.refresher.RefreshNow()
	}
	snapshot := h.cell.Snapshot()
	writeJSON(w, http.StatusOK, snapshot.Overview)
}

// requestRange resolves the range query parameter, falling back to the
// active settings and ultimately to the widest window.
func (h *Handlers) requestRange(r *http.Request) models.TimeRange {
	if spec := r.URL.Query().Get("range"); spec != "" {
		return models.ParseTimeRange(spec)
	}
	return h.cell.Settings().TimeRange
}

// requestMetrics resolves the metrics query parameter (comma-separated keys),
// falling back to the active selection. Unknown keys are dropped.
func (h *Handlers) requestMetrics(r *http.Request) []string {
	raw := r.URL.Query().Get("metrics")
	if raw == "" {
		return h.cell.Settings().Metrics
	}
	var keys []string
	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		if _, ok := models.DescriptorByKey(key); ok {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return h.cell.Settings().Metrics
	}
	return keys
}

func selectedDescriptors(keys []string) []models.MetricDescriptor {
	var out []models.MetricDescriptor
	for _, d := range models.Descriptors() {
		for _, key := range keys {
			if d.Key == key {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusRecorder captures the response code for request accounting.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The websocket upgrade needs the raw ResponseWriter (http.Hijacker).
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.CountHTTPRequest(route, rec.status)
	})
}
