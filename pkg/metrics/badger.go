package metrics

import (
	"github.com/marmos91/helocheck/pkg/device/badger"
)

// BadgerMetrics records the cache statistics of a BadgerDB-backed device.
type BadgerMetrics interface {
	// RecordCacheStats records a snapshot of one badger cache.
	RecordCacheStats(stats badger.CacheStats)
}

// NewBadgerMetrics creates a Prometheus-backed BadgerMetrics instance.
//
// Returns nil if metrics are not enabled.
func NewBadgerMetrics() BadgerMetrics {
	if !IsEnabled() || newPrometheusBadgerMetrics == nil {
		return nil
	}
	return newPrometheusBadgerMetrics()
}

// newPrometheusBadgerMetrics is implemented in pkg/metrics/prometheus/badger.go
var newPrometheusBadgerMetrics func() BadgerMetrics

// RegisterBadgerMetricsConstructor registers the Prometheus BadgerDB metrics constructor.
// Called by pkg/metrics/prometheus/badger.go during package initialization.
func RegisterBadgerMetricsConstructor(constructor func() BadgerMetrics) {
	newPrometheusBadgerMetrics = constructor
}

// RecordBadgerCacheStats records every cache snapshot in stats.
// Safe to call with a nil BadgerMetrics.
func RecordBadgerCacheStats(m BadgerMetrics, stats []badger.CacheStats) {
	if m == nil {
		return
	}
	for _, s := range stats {
		m.RecordCacheStats(s)
	}
}
