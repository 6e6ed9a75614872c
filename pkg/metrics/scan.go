package metrics

import (
	"github.com/marmos91/helocheck/pkg/scan"
)

// NewScanMetrics creates a Prometheus-backed scan.Metrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called) or the
// prometheus package was not imported. When nil is returned, callers should
// pass nil to scan.Options, which results in zero overhead.
//
// Example usage:
//
//	metrics.InitRegistry()
//	runner := scan.NewRunner(dev, scan.Options{Metrics: metrics.NewScanMetrics()})
func NewScanMetrics() scan.Metrics {
	if !IsEnabled() || newPrometheusScanMetrics == nil {
		return nil
	}
	return newPrometheusScanMetrics()
}

// newPrometheusScanMetrics is implemented in pkg/metrics/prometheus/scan.go
// This indirection avoids import cycles while keeping the API clean
var newPrometheusScanMetrics func() scan.Metrics

// RegisterScanMetricsConstructor registers the Prometheus scan metrics constructor.
// Called by pkg/metrics/prometheus/scan.go during package initialization.
func RegisterScanMetricsConstructor(constructor func() scan.Metrics) {
	newPrometheusScanMetrics = constructor
}
