// Package metrics holds the Prometheus collectors of the converter.
//
// A nil *Metrics is valid: every recording method is a no-op on it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fx"

// Fetch and conversion outcomes used as label values.
const (
	OutcomeSuccess         = "success"
	OutcomeFailure         = "failure"
	OutcomeOK              = "ok"
	OutcomeInvalidInput    = "invalid_input"
	OutcomeUnknownCurrency = "unknown_currency"
	CacheHit               = "hit"
	CacheMiss              = "miss"
)

// Metrics groups the converter collectors.
type Metrics struct {
	RateFetchTotal    *prometheus.CounterVec
	RateFetchDuration *prometheus.HistogramVec
	RateTableSize     prometheus.Gauge
	ConversionsTotal  *prometheus.CounterVec
	RateCacheTotal    *prometheus.CounterVec
}

// New registers the collectors on reg. A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		RateFetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_fetch_total",
				Help:      "Rate table fetches by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		RateFetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "rate_fetch_duration_seconds",
				Help:      "Duration of rate table fetches",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		RateTableSize: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "rate_table_size",
				Help:      "Number of currencies in the current rate table",
			},
		),
		ConversionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conversions_total",
				Help:      "Conversions by outcome",
			},
			[]string{"outcome"},
		),
		RateCacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_cache_total",
				Help:      "Rate table cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// ObserveFetch records one fetch attempt.
func (m *Metrics) ObserveFetch(provider string, ok bool, took time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if !ok {
		outcome = OutcomeFailure
	}
	m.RateFetchTotal.WithLabelValues(provider, outcome).Inc()
	m.RateFetchDuration.WithLabelValues(provider).Observe(took.Seconds())
}

// SetTableSize records the size of the current table; 0 when absent.
func (m *Metrics) SetTableSize(n int) {
	if m == nil {
		return
	}
	m.RateTableSize.Set(float64(n))
}

// ObserveConversion records one conversion outcome.
func (m *Metrics) ObserveConversion(outcome string) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCache records a cache hit or miss.
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	result := CacheMiss
	if hit {
		result = CacheHit
	}
	m.RateCacheTotal.WithLabelValues(result).Inc()
}
