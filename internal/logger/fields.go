package logger

import (
	"log/slog"
	"time"
)

// Standard field keys for structured logging.
// Use these keys consistently so runs can be queried across log files.
const (
	// ========================================================================
	// Run
	// ========================================================================
	KeyRunID     = "run_id"    // Scan run identifier (uuid)
	KeyOperation = "operation" // write, verify, inspect, generate
	KeyTraceID   = "trace_id"  // OpenTelemetry trace ID
	KeyOrder     = "order"     // sequential, reverse, random
	KeyWorkers   = "workers"   // Concurrent block workers

	// ========================================================================
	// Device
	// ========================================================================
	KeyDevice   = "device"   // Device type and location
	KeyPath     = "path"     // Image file or device node
	KeyBucket   = "bucket"   // S3 bucket
	KeyCapacity = "capacity" // Device capacity in blocks

	// ========================================================================
	// Blocks
	// ========================================================================
	KeyBlock       = "block"        // Physical block index
	KeyBlockNumber = "block_number" // Logical number stored in the payload
	KeyStart       = "start"        // First block of a range
	KeyCount       = "count"        // Number of blocks in a range
	KeyWord        = "word"         // Word index inside a block
	KeyExpected    = "expected"     // Expected word value
	KeyActual      = "actual"       // Value read back
	KeyResult      = "result"       // good, bad, nothelo, missing, misplaced, io_error
	KeyErrors      = "errors"       // Mismatching words or failed blocks

	// ========================================================================
	// Summary counters
	// ========================================================================
	KeyGood      = "good"
	KeyBad       = "bad"
	KeyNotHelo   = "nothelo"
	KeyMissing   = "missing"
	KeyMisplaced = "misplaced"
	KeyIOErrors  = "io_errors"

	// ========================================================================
	// Outcome
	// ========================================================================
	KeyBytes    = "bytes"    // Bytes transferred
	KeyDuration = "duration" // Elapsed time
	KeyRate     = "rate"     // Human-readable throughput
	KeyError    = "error"    // Error message
)

// RunID returns a slog.Attr for a scan run identifier
func RunID(id string) slog.Attr {
	return slog.String(KeyRunID, id)
}

// Operation returns a slog.Attr for the operation name
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Device returns a slog.Attr describing the device under test
func Device(desc string) slog.Attr {
	return slog.String(KeyDevice, desc)
}

// Path returns a slog.Attr for a file or device path
func Path(p string) slog.Attr {
	return slog.String(KeyPath, p)
}

// Block returns a slog.Attr for a physical block index
func Block(index uint32) slog.Attr {
	return slog.Uint64(KeyBlock, uint64(index))
}

// BlockNumber returns a slog.Attr for the block number stored in a payload
func BlockNumber(n uint32) slog.Attr {
	return slog.Uint64(KeyBlockNumber, uint64(n))
}

// Word returns a slog.Attr for a word index
func Word(i int) slog.Attr {
	return slog.Int(KeyWord, i)
}

// Result returns a slog.Attr for a block classification
func Result(r string) slog.Attr {
	return slog.String(KeyResult, r)
}

// Errors returns a slog.Attr for an error count
func Errors(n int) slog.Attr {
	return slog.Int(KeyErrors, n)
}

// Bytes returns a slog.Attr for a byte count
func Bytes(n int64) slog.Attr {
	return slog.Int64(KeyBytes, n)
}

// Elapsed returns a slog.Attr for a duration
func Elapsed(d time.Duration) slog.Attr {
	return slog.Duration(KeyDuration, d)
}

// Err returns a slog.Attr for an error, or an empty Attr for nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}
