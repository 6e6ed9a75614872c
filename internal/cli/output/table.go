package output

import (
	"io"

	"github.com/olekukonko/tablewriter"
)

// TableRenderer is implemented by results that have a tabular form.
type TableRenderer interface {
	Headers() []string
	Rows() [][]string
}

// Table is a TableRenderer assembled row by row.
type Table struct {
	header []string
	body   [][]string
}

// NewTable starts a table with the given column names.
func NewTable(columns ...string) *Table {
	return &Table{header: columns}
}

// Add appends one row. Missing trailing cells render empty.
func (t *Table) Add(cells ...string) *Table {
	row := make([]string, len(t.header))
	copy(row, cells)
	t.body = append(t.body, row)
	return t
}

// Len returns the number of rows added so far.
func (t *Table) Len() int { return len(t.body) }

func (t *Table) Headers() []string { return t.header }
func (t *Table) Rows() [][]string  { return t.body }

// borderless builds the plain, left-aligned layout every table here shares.
// sep separates columns; "" leaves only padding between them.
func borderless(w io.Writer, sep string) *tablewriter.Table {
	tw := tablewriter.NewWriter(w)
	tw.SetBorder(false)
	tw.SetHeaderLine(false)
	tw.SetAutoWrapText(false)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetCenterSeparator("")
	tw.SetRowSeparator("")
	tw.SetColumnSeparator(sep)
	tw.SetTablePadding("  ")
	tw.SetNoWhiteSpace(true)
	return tw
}

func renderTable(w io.Writer, t TableRenderer) {
	tw := borderless(w, "")
	tw.SetAutoFormatHeaders(true)
	tw.SetHeader(t.Headers())
	tw.AppendBulk(t.Rows())
	tw.Render()
}

// Pair is one labelled value in a summary block: {label, value}.
type Pair [2]string

func renderPairs(w io.Writer, pairs []Pair) {
	tw := borderless(w, ":")
	tw.SetAutoFormatHeaders(false)
	for _, p := range pairs {
		tw.Append(p[:])
	}
	tw.Render()
}
