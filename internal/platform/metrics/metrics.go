package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. All recording
// methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	FeasibilityChecks  *prometheus.CounterVec
	GeocodeCacheHits   prometheus.Counter
	GeocodeCacheMisses prometheus.Counter
	SweepRuns          *prometheus.CounterVec
	TicketTransitions  *prometheus.CounterVec
	EISSDDuration      prometheus.Histogram
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		FeasibilityChecks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homenet_feasibility_checks_total",
			Help: "Feasibility pipeline runs by outcome (ok, geocode, address_resolution, protocol_transport, protocol_parse).",
		}, []string{"outcome"}),
		GeocodeCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homenet_geocode_cache_hits_total",
			Help: "Geocoder suggestions served from the redis cache.",
		}),
		GeocodeCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "homenet_geocode_cache_misses_total",
			Help: "Geocoder suggestions fetched from the upstream API.",
		}),
		SweepRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homenet_sweep_runs_total",
			Help: "Reconciliation sweep executions by sweep name.",
		}, []string{"sweep"}),
		TicketTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "homenet_ticket_transitions_total",
			Help: "CRM ticket transitions applied by the sweeps, by target status.",
		}, []string{"to_status"}),
		EISSDDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "homenet_eissd_request_duration_seconds",
			Help:    "Duration of vendor feasibility requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordFeasibilityCheck(outcome string) {
	if m == nil {
		return
	}
	m.FeasibilityChecks.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordGeocodeCacheHit() {
	if m == nil {
		return
	}
	m.GeocodeCacheHits.Inc()
}

func (m *Metrics) RecordGeocodeCacheMiss() {
	if m == nil {
		return
	}
	m.GeocodeCacheMisses.Inc()
}

func (m *Metrics) RecordSweepRun(sweep string) {
	if m == nil {
		return
	}
	m.SweepRuns.WithLabelValues(sweep).Inc()
}

func (m *Metrics) RecordTicketTransition(toStatus string) {
	if m == nil {
		return
	}
	m.TicketTransitions.WithLabelValues(toStatus).Inc()
}

func (m *Metrics) ObserveEISSDDuration(seconds float64) {
	if m == nil {
		return
	}
	m.EISSDDuration.Observe(seconds)
}
