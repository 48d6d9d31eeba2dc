package inspector

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/inspectomop/pkg/core"
	"github.com/leapstack-labs/inspectomop/pkg/dialect"
)

// Column is a reflected table column.
type Column = core.Column

// Table is a reflected table. Every table has a primary key; when the
// database declares none the first column is used.
type Table struct {
	Schema     string
	Name       string
	Columns    []*Column
	PrimaryKey []string

	dialect *dialect.Dialect
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// HasColumn reports whether the table has the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// ColumnNames returns the column names in ordinal order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// QualifiedName returns the quoted schema.table reference for queries.
func (t *Table) QualifiedName() string {
	return t.dialect.QualifiedName(t.Schema, t.Name)
}

// Category returns the CDM category of the table, if it is a CDM table.
func (t *Table) Category() (core.Category, bool) {
	return core.CategoryOf(t.Name)
}

// newTable builds a table from reflected metadata, normalizing date column
// types for dialects without native dates and defaulting the primary key.
func newTable(md *core.TableMetadata, d *dialect.Dialect) *Table {
	t := &Table{Schema: md.Schema, Name: md.Name, dialect: d}
	for _, c := range md.Columns {
		col := c
		if d.DateColumnTypes {
			col.Type = normalizeDateType(col.Name, col.Type)
		}
		t.Columns = append(t.Columns, &col)
	}

	t.PrimaryKey = md.PrimaryKey()
	if len(t.PrimaryKey) == 0 && len(t.Columns) > 0 {
		t.Columns[0].PrimaryKey = true
		t.PrimaryKey = []string{t.Columns[0].Name}
	}
	return t
}

// normalizeDateType maps *date columns to DATE and *datetime columns to
// DATETIME, whatever type they were declared with.
func normalizeDateType(name, typ string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, "datetime") && !strings.EqualFold(typ, "DATETIME"):
		return "DATETIME"
	case strings.HasSuffix(lower, "date") && !strings.EqualFold(typ, "DATE"):
		return "DATE"
	}
	return typ
}

func sortedNames(tables map[string]*Table) []string {
	names := make([]string, 0, len(tables))
	for name := range tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
