// Package metrics holds the Prometheus collectors of the analyzer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Analysis outcomes
const (
	ResultSuccess       = "success"
	ResultProviderError = "provider_error"
	ResultInvalid       = "invalid_request"
)

// Registry holds all analyzer metrics
type Registry struct {
	gatherer prometheus.Gatherer

	Analyses      *prometheus.CounterVec
	ProviderFetch *prometheus.HistogramVec
	POIsFetched   prometheus.Histogram
	Scores        prometheus.Histogram
	CacheHits     *prometheus.CounterVec
	CacheMisses   *prometheus.CounterVec
}

// New creates the metrics and registers them on reg
func New(reg *prometheus.Registry) *Registry {
	m := &Registry{
		gatherer: reg,

		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "footfall_analyses_total",
				Help: "Location analyses by result",
			},
			[]string{"result"},
		),

		ProviderFetch: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "footfall_provider_fetch_seconds",
				Help:    "POI provider fetch latency",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider", "result"},
		),

		POIsFetched: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "footfall_pois_per_analysis",
				Help:    "POIs returned per analysis",
				Buckets: prometheus.ExponentialBuckets(1, 2, 12),
			},
		),

		Scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "footfall_score",
				Help:    "Distribution of footfall scores",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
			},
		),

		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "footfall_cache_hits_total",
				Help: "POI cache hits by backend",
			},
			[]string{"backend"},
		),

		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "footfall_cache_misses_total",
				Help: "POI cache misses by backend",
			},
			[]string{"backend"},
		),
	}

	reg.MustRegister(
		m.Analyses,
		m.ProviderFetch,
		m.POIsFetched,
		m.Scores,
		m.CacheHits,
		m.CacheMisses,
	)
	return m
}

// NewDefault uses a fresh registry with Go runtime collectors
func NewDefault() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return New(reg)
}

// ObserveFetch records one provider call
func (m *Registry) ObserveFetch(provider string, start time.Time, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultProviderError
	}
	m.ProviderFetch.WithLabelValues(provider, result).Observe(time.Since(start).Seconds())
}

// ObserveAnalysis records a completed analysis
func (m *Registry) ObserveAnalysis(pois int, score float64) {
	m.Analyses.WithLabelValues(ResultSuccess).Inc()
	m.POIsFetched.Observe(float64(pois))
	m.Scores.Observe(score)
}

// RecordFailure counts a failed analysis
func (m *Registry) RecordFailure(result string) {
	m.Analyses.WithLabelValues(result).Inc()
}

// RecordCacheHit cache hit for a backend
func (m *Registry) RecordCacheHit(backend string) {
	m.CacheHits.WithLabelValues(backend).Inc()
}

// RecordCacheMiss cache miss for a backend
func (m *Registry) RecordCacheMiss(backend string) {
	m.CacheMisses.WithLabelValues(backend).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
