package prometheus

import (
	"time"

	"github.com/marmos91/helocheck/pkg/device"
	"github.com/marmos91/helocheck/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func init() {
	metrics.RegisterDeviceMetricsConstructor(func() device.Observer {
		return NewDeviceMetrics()
	})
}

// deviceMetrics is the Prometheus implementation of device.Observer.
type deviceMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
}

// NewDeviceMetrics creates a new Prometheus-backed device.Observer.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewDeviceMetrics() *deviceMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &deviceMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helocheck_device_operations_total",
				Help: "Total number of device operations by operation type and status",
			},
			[]string{"operation", "status"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "helocheck_device_operation_duration_milliseconds",
				Help: "Duration of device operations in milliseconds",
				Buckets: []float64{
					0.05, // 50us - memory, page cache hits
					0.1,
					0.5,
					1,    // 1ms - local SSD
					5,    // 5ms
					10,   // 10ms - SD cards, spinning disks
					50,   // 50ms - object stores
					100,  // 100ms
					500,  // 500ms
					1000, // 1s - fsync on slow media
					5000, // 5s
				},
			},
			[]string{"operation"},
		),
		errorsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "helocheck_device_errors_total",
				Help: "Total number of failed device operations by operation type",
			},
			[]string{"operation"},
		),
	}
}

// ObserveOperation records a device operation with its duration and outcome.
func (m *deviceMetrics) ObserveOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
		m.errorsTotal.WithLabelValues(operation).Inc()
	}

	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(float64(duration.Microseconds()) / 1000)
}
