// Package metrics provides Prometheus metrics for the session layer and the
// API clients behind it.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics, or one created
// without a registerer, records nothing.
type Metrics struct {
	enabled bool

	// session resolution outcomes
	resolutionsTotal *prometheus.CounterVec

	// refresh calls to the auth API
	refreshDuration *prometheus.HistogramVec

	// profile hydration
	hydrationsTotal *prometheus.CounterVec

	// generation cache
	cacheLookupsTotal *prometheus.CounterVec
	cacheEntries      prometheus.Gauge
}

// New creates Metrics and registers them with reg. If reg is nil, returns a
// no-op Metrics instance.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{enabled: reg != nil}

	if !m.enabled {
		return m
	}

	factory := promauto.With(reg)

	m.resolutionsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfront_session_resolutions_total",
		Help: "Total sessions resolved, by outcome",
	}, []string{"outcome"})

	m.refreshDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "newsfront_token_refresh_duration_seconds",
		Help:    "Access token refresh call duration in seconds, by result",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})

	m.hydrationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfront_profile_hydrations_total",
		Help: "Total profile fetches for authenticated sessions, by result",
	}, []string{"result"})

	m.cacheLookupsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "newsfront_generation_cache_lookups_total",
		Help: "Total generation cache lookups, by result",
	}, []string{"result"})

	m.cacheEntries = factory.NewGauge(prometheus.GaugeOpts{
		Name: "newsfront_generation_cache_entries",
		Help: "Current number of entries in the generation cache",
	})

	return m
}

func (m *Metrics) on() bool {
	return m != nil && m.enabled
}

// RecordResolution records the outcome of resolving one request's session.
func (m *Metrics) RecordResolution(outcome string) {
	if !m.on() {
		return
	}
	m.resolutionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveRefresh records how long a refresh call took and how it ended.
func (m *Metrics) ObserveRefresh(result string, seconds float64) {
	if !m.on() {
		return
	}
	m.refreshDuration.WithLabelValues(result).Observe(seconds)
}

// RecordHydration records whether a profile fetch succeeded.
func (m *Metrics) RecordHydration(ok bool) {
	if !m.on() {
		return
	}
	m.hydrationsTotal.WithLabelValues(result(ok, "ok", "error")).Inc()
}

// RecordCacheLookup records a generation cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if !m.on() {
		return
	}
	m.cacheLookupsTotal.WithLabelValues(result(hit, "hit", "miss")).Inc()
}

// SetCacheSize sets the current generation cache size.
func (m *Metrics) SetCacheSize(size int) {
	if !m.on() {
		return
	}
	m.cacheEntries.Set(float64(size))
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
