package logger

import (
	"context"
	"time"
)

type ctxKey struct{}

// LogContext carries the identity of one scan run. The *Ctx logging
// functions stamp its fields on every line they write.
type LogContext struct {
	RunID     string
	Operation string // write, verify, inspect
	Device    string // e.g. "file:/dev/sdb"
	TraceID   string
	StartTime time.Time
}

// NewLogContext starts a LogContext for a run beginning now.
func NewLogContext(runID, operation, device string) *LogContext {
	return &LogContext{RunID: runID, Operation: operation, Device: device, StartTime: time.Now()}
}

// WithContext attaches lc to ctx.
func WithContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, lc)
}

// FromContext returns the LogContext in ctx, or nil.
func FromContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, _ := ctx.Value(ctxKey{}).(*LogContext)
	return lc
}

// WithTrace returns a copy of lc carrying traceID.
func (lc *LogContext) WithTrace(traceID string) *LogContext {
	if lc == nil {
		return nil
	}
	c := *lc
	c.TraceID = traceID
	return &c
}

// Elapsed is the time since the run started.
func (lc *LogContext) Elapsed() time.Duration {
	if lc == nil || lc.StartTime.IsZero() {
		return 0
	}
	return time.Since(lc.StartTime)
}

// fields returns the non-empty run fields as key/value pairs.
func (lc *LogContext) fields() []any {
	f := make([]any, 0, 8)
	for _, kv := range [...][2]string{
		{KeyRunID, lc.RunID},
		{KeyOperation, lc.Operation},
		{KeyDevice, lc.Device},
		{KeyTraceID, lc.TraceID},
	} {
		if kv[1] != "" {
			f = append(f, kv[0], kv[1])
		}
	}
	return f
}
