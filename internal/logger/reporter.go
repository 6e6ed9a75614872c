package logger

import (
	"log/slog"

	"github.com/marmos91/helocheck/pkg/helo"
)

// Reporter returns a helo.ReportFunc that logs every check message at WARN
// level with the given fields attached. It is safe for concurrent use, but
// the two lines of one block may interleave with other blocks' lines unless
// the caller serializes checks.
func Reporter(args ...any) helo.ReportFunc {
	return func(msg string) {
		Warn(msg, args...)
	}
}

// ReporterAttrs is Reporter for pre-built attributes.
func ReporterAttrs(attrs ...slog.Attr) helo.ReportFunc {
	args := make([]any, len(attrs))
	for i, a := range attrs {
		args[i] = a
	}
	return Reporter(args...)
}
