// Package logger is the process-wide structured logger of helocheck, built on
// log/slog.
//
// Text output is a compact single-line format, colourised when it goes to a
// terminal. JSON output suits long unattended runs whose logs are shipped
// elsewhere.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Config mirrors the logging section of the configuration file.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // text, json
	Output string // stdout, stderr, or file path
}

// sink is where and how records are written.
type sink struct {
	w     io.Writer
	json  bool
	color bool
}

var (
	level   slog.LevelVar
	current atomic.Pointer[slog.Logger]

	sinkMu sync.Mutex
	out    = sink{w: os.Stderr}
)

func init() {
	out.color = isTerminal(os.Stderr.Fd())
	rebuild()
}

// rebuild swaps in a logger for the current sink. Callers hold sinkMu or run
// before any concurrent use.
func rebuild() {
	opts := &slog.HandlerOptions{Level: &level}
	var h slog.Handler
	if out.json {
		h = slog.NewJSONHandler(out.w, opts)
	} else {
		h = NewColorTextHandler(out.w, opts, out.color)
	}
	current.Store(slog.New(h))
}

func update(fn func(s *sink)) {
	sinkMu.Lock()
	defer sinkMu.Unlock()
	fn(&out)
	rebuild()
}

var levelNames = map[string]slog.Level{
	"DEBUG":   slog.LevelDebug,
	"INFO":    slog.LevelInfo,
	"WARN":    slog.LevelWarn,
	"WARNING": slog.LevelWarn,
	"ERROR":   slog.LevelError,
}

// ParseLevel maps a level name, in any case, to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	if l, ok := levelNames[strings.ToUpper(strings.TrimSpace(s))]; ok {
		return l, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Init applies cfg. Empty fields leave the current setting alone.
func Init(cfg Config) error {
	var l slog.Level
	if cfg.Level != "" {
		var err error
		if l, err = ParseLevel(cfg.Level); err != nil {
			return err
		}
	}

	var (
		w     io.Writer
		color bool
	)
	if cfg.Output != "" {
		var err error
		if w, color, err = openOutput(cfg.Output); err != nil {
			return err
		}
	}

	if cfg.Level != "" {
		level.Set(l)
	}
	update(func(s *sink) {
		if w != nil {
			s.w, s.color = w, color
		}
		if f := strings.ToLower(cfg.Format); f == "json" || f == "text" {
			s.json = f == "json"
		}
	})
	return nil
}

func openOutput(name string) (io.Writer, bool, error) {
	switch strings.ToLower(name) {
	case "stdout":
		return os.Stdout, isTerminal(os.Stdout.Fd()), nil
	case "stderr":
		return os.Stderr, isTerminal(os.Stderr.Fd()), nil
	}
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open log file %q: %w", name, err)
	}
	return f, false, nil
}

// InitWithWriter sends logs to w. Tests use it to capture output.
func InitWithWriter(w io.Writer, lvl, format string, color bool) {
	SetLevel(lvl)
	update(func(s *sink) {
		s.w, s.color = w, color
		if f := strings.ToLower(format); f == "json" || f == "text" {
			s.json = f == "json"
		}
	})
}

// SetLevel sets the minimum level. Unknown names are ignored.
func SetLevel(name string) {
	if l, err := ParseLevel(name); err == nil {
		level.Set(l)
	}
}

// SetFormat switches between text and json. Unknown formats are ignored.
func SetFormat(format string) {
	switch strings.ToLower(format) {
	case "text":
		update(func(s *sink) { s.json = false })
	case "json":
		update(func(s *sink) { s.json = true })
	}
}

func logAt(ctx context.Context, l slog.Level, msg string, args []any) {
	if l < level.Level() {
		return
	}
	if lc := FromContext(ctx); lc != nil {
		args = append(lc.fields(), args...)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	current.Load().Log(ctx, l, msg, args...)
}

// Debug, Info, Warn and Error take slog-style key/value pairs or slog.Attr
// values after the message.
func Debug(msg string, args ...any) { logAt(context.Background(), slog.LevelDebug, msg, args) }
func Info(msg string, args ...any)  { logAt(context.Background(), slog.LevelInfo, msg, args) }
func Warn(msg string, args ...any)  { logAt(context.Background(), slog.LevelWarn, msg, args) }
func Error(msg string, args ...any) { logAt(context.Background(), slog.LevelError, msg, args) }

// The Ctx variants put the run fields stored in ctx ahead of args.
func DebugCtx(ctx context.Context, msg string, args ...any) {
	logAt(ctx, slog.LevelDebug, msg, args)
}

func InfoCtx(ctx context.Context, msg string, args ...any) {
	logAt(ctx, slog.LevelInfo, msg, args)
}

func WarnCtx(ctx context.Context, msg string, args ...any) {
	logAt(ctx, slog.LevelWarn, msg, args)
}

func ErrorCtx(ctx context.Context, msg string, args ...any) {
	logAt(ctx, slog.LevelError, msg, args)
}

// With returns a logger carrying args on every record.
func With(args ...any) *slog.Logger {
	return current.Load().With(args...)
}
