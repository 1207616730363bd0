// Package output serializes results in the formats the CLI and API offer.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/nanzhong/neotest"
	"gopkg.in/yaml.v3"
)

// Format is an output format.
type Format string

const (
	// FormatJSON is 2-space indented JSON, the format test-result UIs consume.
	FormatJSON Format = "json"
	// FormatYAML is YAML with 2-space indentation.
	FormatYAML Format = "yaml"
	// FormatTable is a human readable table of results.
	FormatTable Format = "table"
)

// ParseFormat parses a format name, defaulting to JSON when empty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Serializer serializes a value.
type Serializer interface {
	Serialize(v interface{}) error
}

// Writer serializes values to an io.Writer in a given format.
type Writer struct {
	format Format
	path   string
	output io.Writer
	closer io.Closer
}

var _ Serializer = (*Writer)(nil)

// NewWriter constructs a Writer. If output is nil, os.Stdout will be used.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{
		format: format,
		output: output,
	}
}

// NewFileWriter constructs a Writer that writes to path, or to stdout when
// path is empty. The file is only created by the first Serialize, so nothing
// is left behind when there is nothing to write. Close the writer once done.
func NewFileWriter(format Format, path string) *Writer {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return NewWriter(format, os.Stdout)
	}
	return &Writer{
		format: format,
		path:   trimmed,
	}
}

// Close closes the underlying file, if any.
func (w *Writer) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

func (w *Writer) open() error {
	if w.output != nil {
		return nil
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	w.output = file
	w.closer = file
	return nil
}

// Serialize writes v in the configured format.
func (w *Writer) Serialize(v interface{}) error {
	if err := w.open(); err != nil {
		return err
	}

	switch w.format {
	case FormatJSON, "":
		return w.serializeJSON(v)
	case FormatYAML:
		return w.serializeYAML(v)
	case FormatTable:
		return w.serializeTable(v)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) serializeJSON(v interface{}) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

func (w *Writer) serializeYAML(v interface{}) error {
	encoder := yaml.NewEncoder(w.output)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	return nil
}

func (w *Writer) serializeTable(v interface{}) error {
	var results *neotest.Results
	switch t := v.(type) {
	case *neotest.Results:
		results = t
	case *neotest.Report:
		results = t.Results
	default:
		return fmt.Errorf("table format does not support %T", v)
	}
	if results == nil {
		results = neotest.NewResults()
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w.output)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Test", "Status", "Line", "Column"})
	for id, result := range results.All() {
		tw.AppendRow(table.Row{id, result.Status, position(result.Location.Line), position(result.Location.Column)})
	}
	tw.AppendFooter(table.Row{fmt.Sprintf("%d results", results.Len()), "", "", ""})
	tw.Render()
	return nil
}

func position(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}
