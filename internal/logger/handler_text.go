package logger

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ColorTextHandler writes one line per record:
//
//	[2006-01-02 15:04:05] [WARN] block verification failed block=7 result=bad
//
// Level names and attribute keys are coloured when enabled.
type ColorTextHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Leveler
	prefix []byte // pre-rendered attrs from WithAttrs
	group  string // dotted group prefix, with trailing "."
	paint  *palette
}

type palette struct {
	debug, info, warn, err, key *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		debug: color.New(color.FgHiBlack),
		info:  color.New(color.FgGreen),
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed, color.Bold),
		key:   color.New(color.FgCyan),
	}
	// fatih/color decides from stdout by default; logs may go elsewhere.
	for _, c := range []*color.Color{p.debug, p.info, p.warn, p.err, p.key} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// NewColorTextHandler returns a handler writing to w. A nil opts logs at INFO
// and above.
func NewColorTextHandler(w io.Writer, opts *slog.HandlerOptions, useColor bool) *ColorTextHandler {
	var lvl slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		lvl = opts.Level
	}
	return &ColorTextHandler{w: w, mu: &sync.Mutex{}, level: lvl, paint: newPalette(useColor)}
}

func (h *ColorTextHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *ColorTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 128+len(h.prefix))
	buf = append(buf, '[')
	buf = r.Time.AppendFormat(buf, time.DateTime)
	buf = append(buf, "] ["...)
	buf = append(buf, h.levelTag(r.Level)...)
	buf = append(buf, "] "...)
	buf = append(buf, r.Message...)
	buf = append(buf, h.prefix...)
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.group, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *ColorTextHandler) levelTag(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return h.paint.debug.Sprint("DEBUG")
	case l < slog.LevelWarn:
		return h.paint.info.Sprint("INFO")
	case l < slog.LevelError:
		return h.paint.warn.Sprint("WARN")
	default:
		return h.paint.err.Sprint("ERROR")
	}
}

func (h *ColorTextHandler) appendAttr(buf []byte, group string, a slog.Attr) []byte {
	if a.Equal(slog.Attr{}) {
		return buf
	}
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			buf = h.appendAttr(buf, group+a.Key+".", ga)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, h.paint.key.Sprint(group+a.Key)...)
	buf = append(buf, '=')
	return appendValue(buf, v)
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindInt64:
		return strconv.AppendInt(buf, v.Int64(), 10)
	case slog.KindUint64:
		return strconv.AppendUint(buf, v.Uint64(), 10)
	case slog.KindFloat64:
		return strconv.AppendFloat(buf, v.Float64(), 'f', 3, 64)
	case slog.KindBool:
		return strconv.AppendBool(buf, v.Bool())
	case slog.KindTime:
		return v.Time().AppendFormat(buf, time.RFC3339)
	default:
		// strings, durations and anything else use their String form
		return append(buf, v.String()...)
	}
}

// WithAttrs renders attrs once so every later record reuses them.
func (h *ColorTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.prefix = append([]byte(nil), h.prefix...)
	for _, a := range attrs {
		c.prefix = c.appendAttr(c.prefix, h.group, a)
	}
	return &c
}

func (h *ColorTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.group = h.group + name + "."
	return &c
}
