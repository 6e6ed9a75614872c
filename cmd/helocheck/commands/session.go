package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/internal/cli/timeutil"
	"github.com/marmos91/helocheck/internal/logger"
	"github.com/marmos91/helocheck/internal/telemetry"
	"github.com/marmos91/helocheck/pkg/api"
	"github.com/marmos91/helocheck/pkg/config"
	"github.com/marmos91/helocheck/pkg/device"
	badgerdev "github.com/marmos91/helocheck/pkg/device/badger"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/marmos91/helocheck/pkg/metrics"
	"github.com/marmos91/helocheck/pkg/scan"
	"github.com/spf13/cobra"

	// Import prometheus metrics to register init() functions
	_ "github.com/marmos91/helocheck/pkg/metrics/prometheus"
)

// session holds everything a device command needs: the loaded
// configuration, the instrumented device, a runner, and the optional
// metrics server. close releases them in reverse order.
type session struct {
	cfg     *config.Config
	dev     *device.Instrumented
	runner  *scan.Runner
	printer *output.Printer

	cleanups []func()
}

// loadConfig loads the configuration. An explicit --config must exist;
// without one, a missing default file means "use defaults".
func loadConfig() (*config.Config, error) {
	if path := GetConfigFile(); path != "" {
		return config.MustLoad(path)
	}
	return config.Load("")
}

// newPrinter returns a printer for the --output format.
func newPrinter(cmd *cobra.Command) (*output.Printer, error) {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return output.NewTerminalPrinter(cmd.OutOrStdout(), format), nil
}

// InitLogger initializes the structured logger from configuration.
func InitLogger(cfg *config.Config) error {
	if err := logger.Init(cfg.LoggerConfig()); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newSession(cmd *cobra.Command, flags *scanFlags) (*session, error) {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := flags.apply(cmd, cfg); err != nil {
		return nil, err
	}
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}

	printer, err := newPrinter(cmd)
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, printer: printer}
	if err := s.open(ctx); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

func (s *session) open(ctx context.Context) error {
	cfg := s.cfg

	shutdownTracing, err := telemetry.Init(ctx, cfg.TracingConfig(Version))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	s.onClose(func() {
		// The command context may already be cancelled by a signal
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", logger.Err(err))
		}
	})
	if telemetry.IsEnabled() {
		logger.Info("Telemetry enabled", "endpoint", cfg.Telemetry.Endpoint, "sample_rate", cfg.Telemetry.SampleRate)
	}

	stopProfiling, err := telemetry.InitProfiling(cfg.ProfilingConfig(Version))
	if err != nil {
		return fmt.Errorf("failed to initialize profiling: %w", err)
	}
	s.onClose(func() {
		if err := stopProfiling(); err != nil {
			logger.Error("profiling shutdown error", logger.Err(err))
		}
	})
	if telemetry.IsProfilingEnabled() {
		logger.Info("Profiling enabled", "endpoint", cfg.Telemetry.Profiling.Endpoint)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	dev, err := config.CreateDevice(ctx, cfg.Device, metrics.NewDeviceMetrics())
	if err != nil {
		return err
	}
	s.dev = dev
	s.onClose(func() {
		s.recordDeviceStats()
		if err := dev.Close(); err != nil {
			logger.Error("device close error", logger.Device(cfg.Device.Describe()), logger.Err(err))
		}
	})
	logger.Debug("Device opened", logger.Device(cfg.Device.Describe()))

	opts := cfg.Scan.Options()
	opts.Name = cfg.Device.Describe()
	opts.Metrics = metrics.NewScanMetrics()
	opts.Report = s.reporter()
	s.runner = scan.NewRunner(dev, opts)

	if cfg.Metrics.Enabled {
		s.startMetricsServer(ctx)
	}
	return nil
}

// reporter returns the sink for helo check messages. Table output prints
// them as they arrive; structured output keeps stdout parseable and logs
// them instead.
func (s *session) reporter() helo.ReportFunc {
	if s.printer.Structured() {
		return logger.ReporterAttrs(logger.Device(s.cfg.Device.Describe()))
	}
	return func(msg string) {
		s.printer.Println(msg)
	}
}

func (s *session) startMetricsServer(ctx context.Context) {
	server := api.NewServer(s.cfg.Metrics, s.dev, s.runner, metrics.GetRegistry())

	serverCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- server.Start(serverCtx)
	}()
	logger.Info("Metrics enabled", "port", s.cfg.Metrics.Port)

	s.onClose(func() {
		cancel()
		if err := <-done; err != nil {
			logger.Error("metrics server error", logger.Err(err))
		}
	})
}

// recordDeviceStats publishes backend statistics gathered during the run.
func (s *session) recordDeviceStats() {
	bd, ok := s.dev.Unwrap().(*badgerdev.Device)
	if !ok {
		return
	}

	stats := bd.CacheStats()
	metrics.RecordBadgerCacheStats(metrics.NewBadgerMetrics(), stats)
	for _, st := range stats {
		logger.Debug("badger cache",
			"cache", st.Cache,
			"hits", st.Hits,
			"misses", st.Misses,
			"ratio", st.Ratio)
	}
}

func (s *session) onClose(fn func()) {
	s.cleanups = append(s.cleanups, fn)
}

// close runs the cleanups in reverse order.
func (s *session) close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
}

// plan returns the configured scan plan.
func (s *session) plan() (scan.Plan, error) {
	return s.cfg.Scan.Plan()
}

// watchProgress logs the progress of the runner every interval until the
// returned function is called.
func (s *session) watchProgress(interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p, ok := s.runner.Progress(); ok && p.Running {
					logProgress(p)
				}
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}

func logProgress(p scan.Progress) {
	percent := 0.0
	if p.Planned > 0 {
		percent = float64(p.Done) * 100 / float64(p.Planned)
	}
	rate := 0.0
	if secs := p.Elapsed.Seconds(); secs > 0 {
		rate = float64(p.Bytes) / secs
	}

	logger.Info("scan progress",
		logger.RunID(p.RunID),
		logger.Operation(p.Operation),
		"done", p.Done,
		"planned", p.Planned,
		"percent", fmt.Sprintf("%.1f", percent),
		"failed", p.Failed,
		logger.KeyRate, humanize.Bytes(uint64(rate))+"/s",
		"eta", timeutil.FormatDuration(timeutil.ETA(p.Done, uint64(p.Planned), p.Elapsed)))
}

// finish prints the summaries and maps the outcome to the command error.
// A cancelled run still prints what it visited.
func (s *session) finish(runErr error, sums ...*scan.Summary) error {
	var printable []*scan.Summary
	for _, sum := range sums {
		if sum != nil {
			printable = append(printable, sum)
		}
	}

	if len(printable) > 0 {
		if err := printSummaries(s.printer, s.cfg.Device.Describe(), printable); err != nil {
			return err
		}
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			s.printer.Verdict(output.Warn, "interrupted")
			return ErrCheckFailed
		}
		return runErr
	}

	for _, sum := range printable {
		if !sum.OK() {
			return ErrCheckFailed
		}
	}
	return nil
}

// isDeviceNode reports whether path names a block or character device.
func isDeviceNode(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode()&os.ModeDevice != 0
}
