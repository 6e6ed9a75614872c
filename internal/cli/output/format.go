// Package output renders command results for a terminal or for scripts.
//
// A Printer either draws human-oriented tables and verdict lines, or, for the
// structured formats, encodes the result value as a single JSON or YAML
// document that other tools can consume.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format selects how a Printer renders results.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

var formatAliases = map[string]Format{
	"":      FormatTable,
	"table": FormatTable,
	"json":  FormatJSON,
	"yaml":  FormatYAML,
	"yml":   FormatYAML,
}

// ParseFormat maps a --output value to a Format. Matching ignores case and
// surrounding whitespace; an empty value means table.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q: want table, json or yaml", s)
}

func (f Format) String() string { return string(f) }

// Structured reports whether f is a machine-readable encoding.
func (f Format) Structured() bool {
	return f == FormatJSON || f == FormatYAML
}

// Encode writes v to w as one JSON or YAML document, indented by two spaces.
// Table is not an encoding; it is treated as JSON.
func Encode(w io.Writer, f Format, v any) error {
	if f == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
