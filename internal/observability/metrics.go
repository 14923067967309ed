package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "guardian_view"

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	PageRenders        prometheus.Counter
	PageRenderDuration prometheus.Histogram

	// Map composition, set once at startup.
	HazardZones   prometheus.Gauge
	OverlayLayers prometheus.Gauge

	// Session state metrics.
	ActiveSessions prometheus.Gauge
	LayerToggles   *prometheus.CounterVec // labels: layer, action={show,hide}

	// Layer event sink metrics.
	LayerEventsPublished    prometheus.Counter
	LayerEventPublishErrors prometheus.Counter

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)

	prometheus.MustRegister(
		m.PageRenders,
		m.PageRenderDuration,
		m.HazardZones,
		m.OverlayLayers,
		m.ActiveSessions,
		m.LayerToggles,
		m.LayerEventsPublished,
		m.LayerEventPublishErrors,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func newMetrics(withHelp bool) *Metrics {
	help := func(s string) string {
		if withHelp {
			return s
		}
		return ""
	}

	return &Metrics{
		PageRenders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      help("Total dashboard pages rendered."),
		}),
		PageRenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_render_duration_seconds",
			Help:      help("Time spent executing the dashboard page template."),
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
		HazardZones: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hazard_zones",
			Help:      help("Number of hazard zones drawn on the map."),
		}),
		OverlayLayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overlay_layers",
			Help:      help("Number of toggleable tile overlays."),
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      help("Page sessions currently tracked."),
		}),
		LayerToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_toggles_total",
			Help:      help("Overlay visibility changes reported by the map engine."),
		}, []string{"layer", "action"}),
		LayerEventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_events_published_total",
			Help:      help("Layer toggle events written to the event topic."),
		}),
		LayerEventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layer_event_publish_errors_total",
			Help:      help("Layer toggle events the event topic rejected."),
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      help("Location search geocoding requests by outcome."),
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      help("Geocoding cache lookups by result."),
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      help("Mapbox API request duration in seconds."),
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "geocode_enabled",
			Help:      help("1 when location search is enabled, 0 otherwise."),
		}),
	}
}
