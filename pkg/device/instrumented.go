package device

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/helocheck/internal/telemetry"
)

// Operation names reported by an instrumented Device.
const (
	OpWrite  = "write"
	OpRead   = "read"
	OpSync   = "sync"
	OpHealth = "health"
)

// Observer receives the duration and outcome of every device operation.
// Implementations must be safe for concurrent use.
type Observer interface {
	ObserveOperation(operation string, duration time.Duration, err error)
}

// Instrumented decorates a Device with a tracing span and an Observer call
// per operation. A missing block is a normal verification outcome and is
// reported to the Observer as success.
type Instrumented struct {
	Device
	kind     string
	observer Observer
}

// Instrument wraps d. kind names the backend in span attributes; observer
// may be nil.
func Instrument(d Device, kind string, observer Observer) *Instrumented {
	return &Instrumented{Device: d, kind: kind, observer: observer}
}

// Unwrap returns the decorated device.
func (i *Instrumented) Unwrap() Device {
	return i.Device
}

func (i *Instrumented) observe(ctx context.Context, op string, start time.Time, err error) {
	if err != nil && !errors.Is(err, ErrBlockNotFound) {
		telemetry.RecordError(ctx, err)
	} else {
		err = nil
	}
	if i.observer != nil {
		i.observer.ObserveOperation(op, time.Since(start), err)
	}
}

// WriteBlock writes one block.
func (i *Instrumented) WriteBlock(ctx context.Context, index uint32, data []byte) error {
	ctx, span := telemetry.StartDeviceSpan(ctx, OpWrite, telemetry.DeviceType(i.kind), telemetry.Block(index))
	defer span.End()

	start := time.Now()
	err := i.Device.WriteBlock(ctx, index, data)
	i.observe(ctx, OpWrite, start, err)
	return err
}

// ReadBlock reads one block.
func (i *Instrumented) ReadBlock(ctx context.Context, index uint32) ([]byte, error) {
	ctx, span := telemetry.StartDeviceSpan(ctx, OpRead, telemetry.DeviceType(i.kind), telemetry.Block(index))
	defer span.End()

	start := time.Now()
	data, err := i.Device.ReadBlock(ctx, index)
	i.observe(ctx, OpRead, start, err)
	return data, err
}

// Sync flushes the device.
func (i *Instrumented) Sync(ctx context.Context) error {
	ctx, span := telemetry.StartDeviceSpan(ctx, OpSync, telemetry.DeviceType(i.kind))
	defer span.End()

	start := time.Now()
	err := i.Device.Sync(ctx)
	i.observe(ctx, OpSync, start, err)
	return err
}

// HealthCheck probes the device.
func (i *Instrumented) HealthCheck(ctx context.Context) error {
	ctx, span := telemetry.StartDeviceSpan(ctx, OpHealth, telemetry.DeviceType(i.kind))
	defer span.End()

	start := time.Now()
	err := i.Device.HealthCheck(ctx)
	i.observe(ctx, OpHealth, start, err)
	return err
}

var _ Device = (*Instrumented)(nil)
