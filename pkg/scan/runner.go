// Package scan writes and verifies ranges of helo blocks on a device.
//
// A Runner fans block operations out to a bounded set of workers and
// classifies each block. Per-block problems never fail a run; they are
// counted in the Summary. Only invalid plans, device-level failures and
// context cancellation are returned as errors.
package scan

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/helocheck/internal/logger"
	"github.com/marmos91/helocheck/internal/telemetry"
	"github.com/marmos91/helocheck/pkg/device"
	"github.com/marmos91/helocheck/pkg/helo"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers is the worker count used when Options.Workers is zero.
	DefaultWorkers = 4

	// DefaultMaxFailures is the number of failures retained when
	// Options.MaxFailures is zero.
	DefaultMaxFailures = 100
)

// Operation names.
const (
	OpWrite  = "write"
	OpVerify = "verify"
)

var errFailFast = errors.New("stopped at first failure")

// Metrics records per-block scan outcomes.
// A nil Metrics disables recording.
type Metrics interface {
	RecordBlockWritten()
	RecordBlockVerified(result string)
	RecordWordMismatches(n int)
}

// Options configures a Runner.
type Options struct {
	// Workers bounds concurrent block operations. Default: DefaultWorkers.
	Workers int

	// FailFast stops the run at the first block that is not good.
	FailFast bool

	// MaxFailures bounds the failures retained in the Summary.
	// Default: DefaultMaxFailures. Negative retains none.
	MaxFailures int

	// Metrics receives per-block outcomes. Optional.
	Metrics Metrics

	// Report receives the helo check messages of bad blocks. Calls are
	// serialized and the two messages of one block are never interleaved
	// with another block's. Optional.
	Report helo.ReportFunc

	// Name describes the device in logs, e.g. "file:/dev/sdb".
	Name string
}

// Runner writes and verifies helo blocks on a device.
type Runner struct {
	dev  device.Device
	opts Options

	reportMu sync.Mutex

	// mu guards the summary of the run in flight
	mu      sync.Mutex
	current *Summary
	started time.Time
	running bool
}

// Progress is a point-in-time view of the most recent run.
type Progress struct {
	RunID     string        `json:"run_id"`
	Operation string        `json:"operation"`
	Planned   uint32        `json:"planned"`
	Done      uint64        `json:"done"`
	Failed    uint64        `json:"failed"`
	Bytes     int64         `json:"bytes"`
	Elapsed   time.Duration `json:"elapsed"`
	Running   bool          `json:"running"`
}

// Progress returns the state of the run in flight, or of the last finished
// run. ok is false before the first run starts.
func (r *Runner) Progress() (p Progress, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return Progress{}, false
	}

	s := r.current
	elapsed := s.Duration
	if r.running {
		elapsed = time.Since(r.started)
	}
	return Progress{
		RunID:     s.RunID,
		Operation: s.Operation,
		Planned:   s.Plan.Count,
		Done:      s.Blocks,
		Failed:    s.Failed(),
		Bytes:     s.Bytes,
		Elapsed:   elapsed,
		Running:   r.running,
	}, true
}

// NewRunner creates a Runner for dev.
func NewRunner(dev device.Device, opts Options) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxFailures == 0 {
		opts.MaxFailures = DefaultMaxFailures
	}
	return &Runner{dev: dev, opts: opts}
}

// outcome is the result of visiting one block.
type outcome struct {
	index uint32
	kind  Kind
	v     *helo.Verification
	err   error
	bytes int
}

// Write fills every block of the plan, writes block n at index n, and syncs
// the device.
func (r *Runner) Write(ctx context.Context, plan Plan) (*Summary, error) {
	sum, err := r.run(ctx, OpWrite, plan, r.writeBlock)
	if err != nil {
		return sum, err
	}

	if err := r.dev.Sync(ctx); err != nil {
		return sum, fmt.Errorf("sync device: %w", err)
	}
	return sum, nil
}

func (r *Runner) writeBlock(ctx context.Context, index uint32) outcome {
	buf := helo.New(index).Bytes()
	if err := r.dev.WriteBlock(ctx, index, buf[:]); err != nil {
		return outcome{index: index, kind: KindIOError, err: err}
	}
	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordBlockWritten()
	}
	return outcome{index: index, kind: KindGood, bytes: helo.BlockSize}
}

// Verify reads and checks every block of the plan.
func (r *Runner) Verify(ctx context.Context, plan Plan) (*Summary, error) {
	return r.run(ctx, OpVerify, plan, r.verifyBlock)
}

func (r *Runner) verifyBlock(ctx context.Context, index uint32) outcome {
	o := r.classify(ctx, index)
	if r.opts.Metrics != nil {
		r.opts.Metrics.RecordBlockVerified(string(o.kind))
		if o.kind == KindBad {
			r.opts.Metrics.RecordWordMismatches(o.v.Errors)
		}
	}
	return o
}

func (r *Runner) classify(ctx context.Context, index uint32) outcome {
	data, err := r.dev.ReadBlock(ctx, index)
	switch {
	case errors.Is(err, device.ErrBlockNotFound):
		return outcome{index: index, kind: KindMissing}
	case err != nil:
		return outcome{index: index, kind: KindIOError, err: err}
	}

	b, err := helo.Decode(data)
	if err != nil {
		return outcome{index: index, kind: KindIOError, err: err, bytes: len(data)}
	}

	v := b.Verify()
	o := outcome{index: index, v: &v, bytes: len(data)}

	switch {
	case v.Result == helo.NotHelo:
		o.kind = KindNotHelo
	case v.Result == helo.Bad:
		o.kind = KindBad
		r.report(v)
	case v.BlockNumber != index:
		o.kind = KindMisplaced
	default:
		o.kind = KindGood
	}
	return o
}

func (r *Runner) report(v helo.Verification) {
	if r.opts.Report == nil {
		return
	}
	r.reportMu.Lock()
	defer r.reportMu.Unlock()
	v.Report(r.opts.Report)
}

// run drives visit over every index of the plan.
func (r *Runner) run(ctx context.Context, op string, plan Plan, visit func(context.Context, uint32) outcome) (*Summary, error) {
	capacity, err := r.dev.Capacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("device capacity: %w", err)
	}
	if capacity == 0 && plan.Count == 0 {
		extent, ok, err := device.CurrentExtent(ctx, r.dev)
		if err != nil {
			return nil, fmt.Errorf("device extent: %w", err)
		}
		if ok {
			plan = plan.FillFromExtent(extent)
		}
	}
	plan, err = plan.Resolve(capacity)
	if err != nil {
		return nil, err
	}

	sum := &Summary{RunID: uuid.NewString(), Operation: op, Plan: plan}

	ctx, span := telemetry.StartScanSpan(ctx, op, sum.RunID,
		telemetry.Start(plan.Start),
		telemetry.Count(plan.Count),
		telemetry.Order(string(plan.Order)),
		telemetry.Workers(r.opts.Workers),
	)
	defer span.End()

	ctx = logger.WithContext(ctx, logger.NewLogContext(sum.RunID, op, r.opts.Name).WithTrace(telemetry.TraceID(ctx)))
	logger.InfoCtx(ctx, "scan started",
		logger.KeyStart, plan.Start,
		logger.KeyCount, plan.Count,
		logger.KeyOrder, string(plan.Order),
		logger.KeyWorkers, r.opts.Workers)

	scanCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	g, gctx := errgroup.WithContext(scanCtx)
	g.SetLimit(r.opts.Workers)

	start := time.Now()
	r.mu.Lock()
	r.current, r.started, r.running = sum, start, true
	r.mu.Unlock()

	for index := range plan.Indices() {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}

			o := visit(gctx, index)

			// Failures caused by the run being cancelled are not the device's
			if o.err != nil && gctx.Err() != nil && errors.Is(o.err, context.Canceled) {
				return nil
			}

			r.mu.Lock()
			r.record(sum, o)
			r.mu.Unlock()

			if o.kind != KindGood {
				logger.DebugCtx(gctx, "block failed",
					logger.KeyBlock, o.index,
					logger.KeyResult, string(o.kind),
					logger.Err(o.err))
				if r.opts.FailFast {
					cancel(errFailFast)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	r.mu.Lock()
	r.running = false
	sum.Duration = time.Since(start)
	slices.SortFunc(sum.Failures, func(a, b Failure) int {
		return cmp.Compare(a.Index, b.Index)
	})
	r.mu.Unlock()

	runErr := ctx.Err()
	sum.Aborted = sum.Blocks < uint64(plan.Count) || errors.Is(context.Cause(scanCtx), errFailFast)

	telemetry.SetAttributes(ctx,
		telemetry.Result(resultOf(sum)),
		telemetry.WordErrors(int(sum.WordErrors)))
	telemetry.RecordError(ctx, runErr)

	logger.InfoCtx(ctx, "scan finished",
		logger.KeyGood, sum.Good,
		logger.KeyBad, sum.Bad,
		logger.KeyNotHelo, sum.NotHelo,
		logger.KeyMissing, sum.Missing,
		logger.KeyMisplaced, sum.Misplaced,
		logger.KeyIOErrors, sum.IOErrors,
		logger.Elapsed(sum.Duration),
		logger.KeyRate, sum.Rate())

	if runErr != nil {
		return sum, runErr
	}
	return sum, nil
}

// record adds o to sum. Callers hold the summary lock.
func (r *Runner) record(sum *Summary, o outcome) {
	sum.add(o.kind)
	sum.Bytes += int64(o.bytes)
	if o.kind == KindBad {
		sum.WordErrors += uint64(o.v.Errors)
	}

	if o.kind == KindGood {
		return
	}
	if r.opts.MaxFailures < 0 || len(sum.Failures) >= r.opts.MaxFailures {
		sum.DroppedFailures++
		return
	}
	sum.Failures = append(sum.Failures, Failure{
		Index:        o.index,
		Kind:         o.kind,
		Verification: o.v,
		Err:          o.err,
	})
}

func resultOf(s *Summary) string {
	if s.OK() {
		return string(KindGood)
	}
	return "failed"
}
