package inspector

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Frame is a materialized, column-labelled block of rows.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Column returns every value of the named column.
func (f *Frame) Column(name string) ([]any, bool) {
	idx := slices.Index(f.Columns, name)
	if idx < 0 {
		return nil, false
	}
	out := make([]any, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// Value returns a single cell.
func (f *Frame) Value(row int, column string) (any, bool) {
	idx := slices.Index(f.Columns, column)
	if idx < 0 || row < 0 || row >= len(f.Rows) {
		return nil, false
	}
	return f.Rows[row][idx], true
}

// String renders the frame as a box-drawn table.
func (f *Frame) String() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(f.Columns))
	for i, c := range f.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, r := range f.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = FormatValue(v)
		}
		t.AppendRow(row)
	}
	return t.Render()
}

// FormatValue renders a cell for display. NULL is shown as "NULL" and
// midnight timestamps as plain dates.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.DateTime)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTime parses the date and timestamp text forms databases commonly return.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isDateType reports whether a database type name holds dates or times.
func isDateType(name string) bool {
	switch strings.ToUpper(name) {
	case "DATE", "DATETIME", "TIMESTAMP", "TIMESTAMPTZ", "TIMESTAMP WITH TIME ZONE":
		return true
	}
	return false
}

// coerceDates converts string cells of date columns to time.Time. A column is
// a date column when its database type says so or its first value is
// already a time. Unparseable values are kept as they are.
func coerceDates(f *Frame, types []string) {
	if f.Len() == 0 {
		return
	}
	first := f.Rows[0]
	for j := range f.Columns {
		_, isTime := first[j].(time.Time)
		if !isTime && (j >= len(types) || !isDateType(types[j])) {
			continue
		}
		for _, row := range f.Rows {
			s, ok := row[j].(string)
			if !ok {
				continue
			}
			if t, ok := ParseTime(s); ok {
				row[j] = t
			}
		}
	}
}
