package inspector

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/leapstack-labs/inspectomop/pkg/core"
)

// TableInfo describes the columns of one table: name, type, nullability and
// primary key membership, in ordinal order.
func (i *Inspector) TableInfo(ctx context.Context, name string) (*Frame, error) {
	t, err := i.Table(ctx, name)
	if err != nil {
		return nil, err
	}
	f := &Frame{Columns: []string{"column", "type", "nullable", "primary_key"}}
	for _, c := range t.Columns {
		f.Rows = append(f.Rows, []any{c.Name, c.Type, c.Nullable, c.PrimaryKey})
	}
	return f, nil
}

// Summary lists the reflected CDM tables with one column per category.
// Each column is sorted; shorter columns are padded with "".
func (i *Inspector) Summary(ctx context.Context) (*Frame, error) {
	cats := core.Categories()
	lists := make([][]string, len(cats))
	longest := 0
	for j, c := range cats {
		tables, err := i.CategoryTables(ctx, c)
		if err != nil {
			return nil, err
		}
		lists[j] = sortedNames(tables)
		longest = max(longest, len(lists[j]))
	}

	f := &Frame{Columns: make([]string, len(cats))}
	for j, c := range cats {
		f.Columns[j] = c.String()
	}
	for r := range longest {
		row := make([]any, len(cats))
		for j, names := range lists {
			row[j] = ""
			if r < len(names) {
				row[j] = names[r]
			}
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

// String renders the connection URL, password redacted, and the table
// summary. It reflects the database if that has not happened yet.
func (i *Inspector) String() string {
	summary, err := i.Summary(context.Background())
	var body string
	if err != nil {
		body = "error: " + err.Error()
	} else {
		body = summary.String()
	}
	return fmt.Sprintf("connection_url : %s\n\ntables:\n%s", adapter.RedactURL(i.url), body)
}

// GoString implements fmt.GoStringer.
func (i *Inspector) GoString() string {
	return fmt.Sprintf("Inspector('%s')", adapter.RedactURL(i.url))
}
