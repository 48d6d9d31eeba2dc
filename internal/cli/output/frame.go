package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

// Format is a result format of the query command.
type Format string

// Result formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
)

// Formats returns the accepted format names.
func Formats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatCSV), string(FormatMarkdown)}
}

// ParseFormat validates a format name. The empty string resolves to the
// format matching mode.
func ParseFormat(s string, mode Mode) (Format, error) {
	switch s {
	case "":
		switch mode {
		case ModeJSON:
			return FormatJSON, nil
		case ModeMarkdown:
			return FormatMarkdown, nil
		default:
			return FormatTable, nil
		}
	case "table", "text":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown format %q (want one of table, json, csv, md)", s)
}

// FrameWriter streams frames in one format. Frames written after the first
// continue the same result: headers are not repeated for csv and markdown,
// and json rows are appended to one array. Close finishes the output.
type FrameWriter struct {
	w       io.Writer
	format  Format
	rows    int
	started bool
}

// NewFrameWriter creates a FrameWriter.
func NewFrameWriter(w io.Writer, format Format) *FrameWriter {
	return &FrameWriter{w: w, format: format}
}

// Rows returns the number of rows written so far.
func (fw *FrameWriter) Rows() int { return fw.rows }

// Write renders one frame.
func (fw *FrameWriter) Write(f *inspector.Frame) error {
	first := !fw.started
	prior := fw.rows
	fw.started = true
	fw.rows += f.Len()

	switch fw.format {
	case FormatJSON:
		return fw.writeJSON(f, first, prior)
	case FormatCSV:
		return fw.writeCSV(f, first)
	case FormatMarkdown:
		if f.Len() == 0 && !first {
			return nil
		}
		_, err := io.WriteString(fw.w, newTable(f, first).RenderMarkdown()+"\n")
		return err
	default:
		if f.Len() == 0 {
			return nil
		}
		t := newTable(f, true)
		t.SetStyle(table.StyleLight)
		_, err := io.WriteString(fw.w, t.Render()+"\n")
		return err
	}
}

// Close finishes the output. An unstarted json result is written as [].
func (fw *FrameWriter) Close() error {
	switch fw.format {
	case FormatJSON:
		if !fw.started {
			_, err := io.WriteString(fw.w, "[]\n")
			return err
		}
		_, err := io.WriteString(fw.w, "\n]\n")
		return err
	case FormatTable:
		_, err := fmt.Fprintf(fw.w, "(%d rows)\n", fw.rows)
		return err
	}
	return nil
}

// WriteFrame renders a whole frame.
func WriteFrame(w io.Writer, f *inspector.Frame, format Format) error {
	fw := NewFrameWriter(w, format)
	if err := fw.Write(f); err != nil {
		return err
	}
	return fw.Close()
}

func newTable(f *inspector.Frame, header bool) table.Writer {
	t := table.NewWriter()
	if header {
		row := make(table.Row, len(f.Columns))
		for i, c := range f.Columns {
			row[i] = c
		}
		t.AppendHeader(row)
	}
	for _, r := range f.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = inspector.FormatValue(v)
		}
		t.AppendRow(row)
	}
	return t
}

// writeCSV writes RFC 4180 records; the header goes out with the first frame.
func (fw *FrameWriter) writeCSV(f *inspector.Frame, first bool) error {
	cw := csv.NewWriter(fw.w)
	if first {
		if err := cw.Write(f.Columns); err != nil {
			return err
		}
	}
	record := make([]string, len(f.Columns))
	for _, r := range f.Rows {
		for i, v := range r {
			record[i] = inspector.FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (fw *FrameWriter) writeJSON(f *inspector.Frame, first bool, prior int) error {
	var buf bytes.Buffer
	if first {
		buf.WriteString("[")
	}
	for i, row := range f.Rows {
		if prior+i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		obj, err := jsonObject(f.Columns, row)
		if err != nil {
			return err
		}
		buf.Write(obj)
	}
	_, err := fw.w.Write(buf.Bytes())
	return err
}

// jsonObject encodes a row as an object whose keys keep column order.
func jsonObject(columns []string, row []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, c := range columns {
		if i > 0 {
			buf.WriteString(", ")
		}
		k, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(jsonValue(row[i]))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c, err)
		}
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return inspector.FormatValue(x)
	case []byte:
		return string(x)
	}
	return v
}

// FormatForMode returns the result format used for a renderer mode.
func FormatForMode(mode Mode) Format {
	f, _ := ParseFormat("", mode)
	return f
}

// Frame renders f in the renderer's effective mode.
func (r *Renderer) Frame(f *inspector.Frame) error {
	return WriteFrame(r.out, f, FormatForMode(r.EffectiveMode()))
}
