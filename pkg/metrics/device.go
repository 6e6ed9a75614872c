package metrics

import (
	"github.com/marmos91/helocheck/pkg/device"
)

// NewDeviceMetrics creates a Prometheus-backed device.Observer that records
// the latency and errors of every device operation.
//
// Returns nil if metrics are not enabled. A nil observer makes
// device.Instrument record spans only.
//
// Example usage:
//
//	dev = device.Instrument(dev, "file", metrics.NewDeviceMetrics())
func NewDeviceMetrics() device.Observer {
	if !IsEnabled() || newPrometheusDeviceMetrics == nil {
		return nil
	}
	return newPrometheusDeviceMetrics()
}

// newPrometheusDeviceMetrics is implemented in pkg/metrics/prometheus/device.go
var newPrometheusDeviceMetrics func() device.Observer

// RegisterDeviceMetricsConstructor registers the Prometheus device metrics constructor.
// Called by pkg/metrics/prometheus/device.go during package initialization.
func RegisterDeviceMetricsConstructor(constructor func() device.Observer) {
	newPrometheusDeviceMetrics = constructor
}
