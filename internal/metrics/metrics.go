package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes viewer and data-sync metrics that are safe to scrape via Prometheus.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	layerFetches      *prometheus.CounterVec
	layerLoadDuration prometheus.Histogram
	loadsDropped      prometheus.Counter
	viewFits          *prometheus.CounterVec
	drawSessions      *prometheus.CounterVec
	apiRequests       *prometheus.CounterVec
	apiDuration       *prometheus.HistogramVec
}

// New creates a fresh Metrics registry with all questmap collectors registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	layerFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questmap",
		Name:      "layer_fetch_total",
		Help:      "Per-category layer fetches by outcome",
	}, []string{"category", "outcome"})

	layerLoadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "questmap",
		Name:      "layer_load_duration_seconds",
		Help:      "Wall time of one fan-out layer load",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})

	loadsDropped := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "questmap",
		Name:      "layer_loads_dropped_total",
		Help:      "Layer load requests ignored because a load was already running",
	})

	viewFits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questmap",
		Name:      "view_fits_total",
		Help:      "Viewport extent updates by how the camera was placed",
	}, []string{"mode"})

	drawSessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questmap",
		Name:      "draw_sessions_total",
		Help:      "Region draw sessions by outcome",
	}, []string{"outcome"})

	apiRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "questmap",
		Name:      "api_requests_total",
		Help:      "Requests sent to the map data API",
	}, []string{"endpoint", "status"})

	apiDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "questmap",
		Name:      "api_request_duration_seconds",
		Help:      "Latency of map data API requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})

	registry.MustRegister(
		layerFetches,
		layerLoadDuration,
		loadsDropped,
		viewFits,
		drawSessions,
		apiRequests,
		apiDuration,
	)

	return &Metrics{
		registry:          registry,
		layerFetches:      layerFetches,
		layerLoadDuration: layerLoadDuration,
		loadsDropped:      loadsDropped,
		viewFits:          viewFits,
		drawSessions:      drawSessions,
		apiRequests:       apiRequests,
		apiDuration:       apiDuration,
	}
}

// ObserveLayerFetch counts one category fetch. outcome is "ok", "error" or "rejected".
func (m *Metrics) ObserveLayerFetch(category, outcome string) {
	if m == nil {
		return
	}
	m.layerFetches.WithLabelValues(category, outcome).Inc()
}

// ObserveLayerLoad records the duration of a whole fan-out.
func (m *Metrics) ObserveLayerLoad(d time.Duration) {
	if m == nil {
		return
	}
	m.layerLoadDuration.Observe(d.Seconds())
}

func (m *Metrics) IncLoadDropped() {
	if m == nil {
		return
	}
	m.loadsDropped.Inc()
}

// IncViewFit counts a viewport update. mode is "fit", "center" or "replay".
func (m *Metrics) IncViewFit(mode string) {
	if m == nil {
		return
	}
	m.viewFits.WithLabelValues(mode).Inc()
}

// IncDrawSession counts a finished draw session. outcome is "completed", "empty" or "aborted".
func (m *Metrics) IncDrawSession(outcome string) {
	if m == nil {
		return
	}
	m.drawSessions.WithLabelValues(outcome).Inc()
}

// ObserveAPIRequest records a single API round trip. status 0 means the
// request never got a response.
func (m *Metrics) ObserveAPIRequest(endpoint string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.apiDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
