package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "table", want: FormatTable},
		{input: "", want: FormatTable},
		{input: "json", want: FormatJSON},
		{input: "JSON", want: FormatJSON},
		{input: "yaml", want: FormatYAML},
		{input: "yml", want: FormatYAML},
		{input: "  table  ", want: FormatTable},
		{input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.ErrorContains(t, err, "xml")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructured(t *testing.T) {
	assert.False(t, FormatTable.Structured())
	assert.True(t, FormatJSON.Structured())
	assert.True(t, FormatYAML.Structured())
}

func TestVerdict(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatTable, false)

	p.Verdict(Pass, "OK: %d blocks good", 400)
	p.Verdict(Warn, "interrupted")
	p.Verdict(Fail, "FAILED: %d of %d", 2, 400)

	assert.Equal(t, "OK: 400 blocks good\ninterrupted\nFAILED: 2 of 400\n", buf.String())
}

func TestVerdictColor(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, FormatTable, true).Verdict(Fail, "bad")

	assert.Contains(t, buf.String(), "\x1b[31m")
	assert.Contains(t, buf.String(), "bad")
}

type result struct {
	Device string `json:"device" yaml:"device"`
	Good   int    `json:"good" yaml:"good"`
}

func (r result) Headers() []string { return []string{"Device", "Good"} }
func (r result) Rows() [][]string  { return [][]string{{r.Device, "400"}} }

func TestPrint(t *testing.T) {
	data := result{Device: "file:disk.img", Good: 400}

	t.Run("Table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(data))
		assert.Contains(t, buf.String(), "DEVICE")
		assert.Contains(t, buf.String(), "file:disk.img")
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatJSON, false).Print(data))
		assert.JSONEq(t, `{"device":"file:disk.img","good":400}`, buf.String())
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatYAML, false).Print(data))

		var got result
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, data, got)
	})

	t.Run("TableFallsBackToJSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewPrinter(&buf, FormatTable, false).Print(map[string]int{"good": 1}))
		assert.JSONEq(t, `{"good":1}`, buf.String())
	})
}

func TestTable(t *testing.T) {
	table := NewTable("Index", "Result", "Detail")
	assert.Equal(t, 0, table.Len())

	table.Add("7", "bad", "word 3").Add("9", "missing")
	require.Equal(t, 2, table.Len())
	assert.Equal(t, []string{"9", "missing", ""}, table.Rows()[1])

	var buf bytes.Buffer
	NewPrinter(&buf, FormatJSON, false).Table(table)
	out := buf.String()
	assert.Contains(t, out, "INDEX")
	assert.Contains(t, out, "RESULT")
	assert.Contains(t, out, "missing")
}

func TestPairs(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, FormatTable, false).Pairs(
		Pair{"Blocks", "400"},
		Pair{"Good", "398"},
	)

	out := buf.String()
	assert.Contains(t, out, "Blocks")
	assert.Contains(t, out, "398")
}
