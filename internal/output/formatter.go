// Package output renders command results in table, YAML, or JSON form.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML document.
	FormatYAML Format = "yaml"
	// FormatJSON is indented JSON for machine consumption.
	FormatJSON Format = "json"
)

// Table is the human-readable rendering of a value.
//
// When Vertical is set, each row is a label/value pair printed one per
// line. Otherwise Headers is printed above Rows. Empty is printed instead
// of the table when there are no rows.
type Table struct {
	Headers  []string
	Rows     [][]string
	Vertical bool
	Empty    string
}

// Formatter renders a value. Structured formatters encode value directly;
// the table formatter prints t.
type Formatter interface {
	Format(value any, t Table) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable, "":
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ParseFormat converts a flag value into a Format.
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	switch f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatYAML, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}

// Write formats value with the named format and writes it to w.
func Write(w io.Writer, format string, value any, t Table) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	formatter, err := NewFormatter(Options{Format: f})
	if err != nil {
		return err
	}
	out, err := formatter.Format(value, t)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}
