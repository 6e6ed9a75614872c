package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for scan and device spans.
const (
	// ========================================================================
	// Run attributes
	// ========================================================================
	AttrRunID     = "helocheck.run_id"
	AttrOperation = "helocheck.operation" // write, verify
	AttrOrder     = "helocheck.order"
	AttrStart     = "helocheck.start"
	AttrCount     = "helocheck.count"
	AttrWorkers   = "helocheck.workers"

	// ========================================================================
	// Block attributes
	// ========================================================================
	AttrBlock       = "block.index"
	AttrBlockNumber = "block.number" // logical number stored in the payload
	AttrResult      = "block.result"
	AttrWordErrors  = "block.word_errors"

	// ========================================================================
	// Device attributes
	// ========================================================================
	AttrDeviceType = "device.type"
	AttrDeviceOp   = "device.operation"
	AttrPath       = "device.path"
	AttrBucket     = "storage.bucket"
	AttrKey        = "storage.key"
)

// Span names.
// Format: <component>.<operation>
const (
	SpanScanWrite  = "scan.write"
	SpanScanVerify = "scan.verify"

	SpanDeviceWrite  = "device.write"
	SpanDeviceRead   = "device.read"
	SpanDeviceSync   = "device.sync"
	SpanDeviceHealth = "device.health"
)

// RunID returns an attribute for the scan run identifier
func RunID(id string) attribute.KeyValue {
	return attribute.String(AttrRunID, id)
}

// Operation returns an attribute for the scan operation
func Operation(op string) attribute.KeyValue {
	return attribute.String(AttrOperation, op)
}

// Order returns an attribute for the scan order
func Order(order string) attribute.KeyValue {
	return attribute.String(AttrOrder, order)
}

// Start returns an attribute for the first block index of a scan
func Start(start uint32) attribute.KeyValue {
	return attribute.Int64(AttrStart, int64(start))
}

// Count returns an attribute for the number of blocks in a scan
func Count(count uint32) attribute.KeyValue {
	return attribute.Int64(AttrCount, int64(count))
}

// Workers returns an attribute for the worker count
func Workers(n int) attribute.KeyValue {
	return attribute.Int(AttrWorkers, n)
}

// Block returns an attribute for a physical block index
func Block(index uint32) attribute.KeyValue {
	return attribute.Int64(AttrBlock, int64(index))
}

// BlockNumber returns an attribute for the block number stored in a payload
func BlockNumber(n uint32) attribute.KeyValue {
	return attribute.Int64(AttrBlockNumber, int64(n))
}

// Result returns an attribute for a block classification
func Result(result string) attribute.KeyValue {
	return attribute.String(AttrResult, result)
}

// WordErrors returns an attribute for the number of mismatching words
func WordErrors(n int) attribute.KeyValue {
	return attribute.Int(AttrWordErrors, n)
}

// DeviceType returns an attribute for the device backend
func DeviceType(t string) attribute.KeyValue {
	return attribute.String(AttrDeviceType, t)
}

// DeviceOp returns an attribute for a device operation name
func DeviceOp(op string) attribute.KeyValue {
	return attribute.String(AttrDeviceOp, op)
}

// Path returns an attribute for a device path
func Path(path string) attribute.KeyValue {
	return attribute.String(AttrPath, path)
}

// Bucket returns an attribute for S3 bucket name
func Bucket(name string) attribute.KeyValue {
	return attribute.String(AttrBucket, name)
}

// StorageKey returns an attribute for S3 object key
func StorageKey(key string) attribute.KeyValue {
	return attribute.String(AttrKey, key)
}

// StartScanSpan starts the root span of a write or verify run.
func StartScanSpan(ctx context.Context, operation, runID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		Operation(operation),
		RunID(runID),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "scan."+operation, trace.WithAttributes(allAttrs...))
}

// StartDeviceSpan starts a span for a single device operation.
func StartDeviceSpan(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{
		DeviceOp(operation),
	}
	allAttrs = append(allAttrs, attrs...)

	return StartSpan(ctx, "device."+operation, trace.WithAttributes(allAttrs...))
}
