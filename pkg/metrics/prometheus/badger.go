package prometheus

import (
	"github.com/marmos91/helocheck/pkg/device/badger"
	"github.com/marmos91/helocheck/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterBadgerMetricsConstructor(func() metrics.BadgerMetrics {
		return NewBadgerMetrics()
	})
}

// badgerMetrics is the Prometheus implementation for BadgerDB device metrics.
type badgerMetrics struct {
	cacheHitRatio *prometheus.GaugeVec
	cacheMisses   *prometheus.GaugeVec
	cacheHits     *prometheus.GaugeVec
}

// NewBadgerMetrics creates a new Prometheus-backed BadgerDB metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewBadgerMetrics() *badgerMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &badgerMetrics{
		cacheHitRatio: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "helocheck_badger_cache_hit_ratio",
				Help: "BadgerDB cache hit ratio (0.0 to 1.0) by cache type",
			},
			[]string{"cache_type"}, // "block", "index"
		),
		cacheMisses: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "helocheck_badger_cache_misses",
				Help: "BadgerDB cache misses since the database was opened, by cache type",
			},
			[]string{"cache_type"},
		),
		cacheHits: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "helocheck_badger_cache_hits",
				Help: "BadgerDB cache hits since the database was opened, by cache type",
			},
			[]string{"cache_type"},
		),
	}
}

// RecordCacheStats records a snapshot of one badger cache.
// Badger reports running totals, so hits and misses are gauges.
func (m *badgerMetrics) RecordCacheStats(stats badger.CacheStats) {
	if m == nil {
		return
	}
	m.cacheHitRatio.WithLabelValues(stats.Cache).Set(stats.Ratio)
	m.cacheHits.WithLabelValues(stats.Cache).Set(float64(stats.Hits))
	m.cacheMisses.WithLabelValues(stats.Cache).Set(float64(stats.Misses))
}
