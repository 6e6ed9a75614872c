// Package prometheus implements the helocheck metrics interfaces on top of
// the registry held by pkg/metrics. Importing it registers the constructors.
package prometheus

import (
	"github.com/marmos91/helocheck/pkg/metrics"
	"github.com/marmos91/helocheck/pkg/scan"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterScanMetricsConstructor(func() scan.Metrics {
		return NewScanMetrics()
	})
}

// scanMetrics is the Prometheus implementation of scan.Metrics.
type scanMetrics struct {
	blocksWritten  prometheus.Counter
	blocksVerified *prometheus.CounterVec
	wordMismatches prometheus.Counter
}

// NewScanMetrics creates a new Prometheus-backed scan.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewScanMetrics() *scanMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	m := &scanMetrics{
		blocksWritten: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "helocheck_blocks_written_total",
				Help: "Total number of helo blocks written",
			},
		),
		blocksVerified: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helocheck_blocks_verified_total",
				Help: "Total number of blocks verified by result",
			},
			[]string{"result"},
		),
		wordMismatches: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "helocheck_word_mismatches_total",
				Help: "Total number of mismatching payload words in bad blocks",
			},
		),
	}

	// Expose every result from the start so rate() queries see zeros
	for _, k := range scan.Kinds {
		m.blocksVerified.WithLabelValues(string(k))
	}
	return m
}

// RecordBlockWritten records one block written.
func (m *scanMetrics) RecordBlockWritten() {
	if m == nil {
		return
	}
	m.blocksWritten.Inc()
}

// RecordBlockVerified records one verified block and its result.
func (m *scanMetrics) RecordBlockVerified(result string) {
	if m == nil {
		return
	}
	m.blocksVerified.WithLabelValues(result).Inc()
}

// RecordWordMismatches adds n mismatching words.
func (m *scanMetrics) RecordWordMismatches(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.wordMismatches.Add(float64(n))
}
