// Package metrics holds the process-wide Prometheus registry and the
// constructors for the metrics helocheck records.
//
// Metrics are opt-in. Until InitRegistry is called every constructor returns
// nil, and callers pass that nil straight through to scan.Runner and
// device.Instrument, which skip recording entirely.
//
// The Prometheus implementations live in pkg/metrics/prometheus and register
// themselves here when that package is imported:
//
//	import _ "github.com/marmos91/helocheck/pkg/metrics/prometheus"
//
//	metrics.InitRegistry()
//	runner := scan.NewRunner(dev, scan.Options{Metrics: metrics.NewScanMetrics()})
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	registryMu sync.RWMutex
	registry   *prometheus.Registry
)

// InitRegistry creates the registry (once) and enables metrics collection.
// The registry also carries the Go runtime and process collectors.
func InitRegistry() *prometheus.Registry {
	registryMu.Lock()
	defer registryMu.Unlock()

	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return registry
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry != nil
}

// GetRegistry returns the registry, or nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry
}

// Reset disables metrics and drops the registry. Intended for tests.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = nil
}
