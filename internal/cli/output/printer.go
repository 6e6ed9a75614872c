package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Verdict classifies a closing status line.
type Verdict int

const (
	Pass Verdict = iota
	Warn
	Fail
)

var verdictColors = map[Verdict]color.Attribute{
	Pass: color.FgGreen,
	Warn: color.FgYellow,
	Fail: color.FgRed,
}

// Printer writes command results in one Format.
type Printer struct {
	w      io.Writer
	format Format
	color  bool
}

// NewPrinter returns a Printer writing to w. color enables ANSI colors on
// verdict lines.
func NewPrinter(w io.Writer, format Format, color bool) *Printer {
	return &Printer{w: w, format: format, color: color}
}

// NewTerminalPrinter is NewPrinter with color decided by fatih/color, which
// honours NO_COLOR and disables itself when stdout is not a terminal.
func NewTerminalPrinter(w io.Writer, format Format) *Printer {
	return NewPrinter(w, format, !color.NoColor)
}

// Structured reports whether results are encoded rather than drawn.
func (p *Printer) Structured() bool { return p.format.Structured() }

// Print emits v. Structured printers encode it; table printers draw it when it
// is a TableRenderer and fall back to JSON otherwise.
func (p *Printer) Print(v any) error {
	if t, ok := v.(TableRenderer); ok && !p.Structured() {
		renderTable(p.w, t)
		return nil
	}
	return Encode(p.w, p.format, v)
}

// Table draws t regardless of format.
func (p *Printer) Table(t TableRenderer) {
	renderTable(p.w, t)
}

// Pairs draws a "key: value" summary block.
func (p *Printer) Pairs(pairs ...Pair) {
	renderPairs(p.w, pairs)
}

func (p *Printer) Println(args ...any) {
	_, _ = fmt.Fprintln(p.w, args...)
}

func (p *Printer) Printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format, args...)
}

// Verdict prints a formatted status line colored by v.
func (p *Printer) Verdict(v Verdict, format string, args ...any) {
	c := color.New(verdictColors[v])
	if p.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	_, _ = c.Fprintf(p.w, format+"\n", args...)
}
