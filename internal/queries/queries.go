// Package queries holds canned OMOP CDM queries adapted from the OHDSI
// OMOP-Queries collection.
//
// Each query checks that the tables it needs were reflected, builds SQL for
// the inspector's dialect and runs it on a pooled connection. An optional
// list of return columns narrows the output; names the query does not
// produce are ignored.
package queries

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
	"github.com/leapstack-labs/inspectomop/pkg/dialect"
)

// ErrNoColumns is returned when none of the requested return columns exist.
var ErrNoColumns = errors.New("none of the requested return columns are produced by this query")

// ErrMissingArgument is returned when a required query argument is empty.
var ErrMissingArgument = errors.New("missing query argument")

// output is one selectable result column.
type output struct {
	name string
	expr string
}

func (o output) sql(d *dialect.Dialect) string {
	return o.expr + " AS " + d.QuoteIdentifier(o.name)
}

// selectList renders the outputs named by returnColumns, in the caller's
// order. Unknown and repeated names are skipped; no names selects every
// output in definition order.
func selectList(d *dialect.Dialect, outputs []output, returnColumns []string) (string, error) {
	if len(returnColumns) == 0 {
		parts := make([]string, len(outputs))
		for i, o := range outputs {
			parts[i] = o.sql(d)
		}
		return strings.Join(parts, ", "), nil
	}
	parts := make([]string, 0, len(returnColumns))
	seen := make(map[string]bool, len(returnColumns))
	for _, name := range returnColumns {
		if seen[name] {
			continue
		}
		i := slices.IndexFunc(outputs, func(o output) bool { return o.name == name })
		if i < 0 {
			continue
		}
		seen[name] = true
		parts = append(parts, outputs[i].sql(d))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoColumns, strings.Join(returnColumns, ", "))
	}
	return strings.Join(parts, ", "), nil
}

func outputNames(outputs []output) []string {
	names := make([]string, len(outputs))
	for i, o := range outputs {
		names[i] = o.name
	}
	return names
}

// builder collects bind arguments and renders dialect placeholders.
type builder struct {
	d    *dialect.Dialect
	args []any
}

func (b *builder) arg(v any) string {
	b.args = append(b.args, v)
	return b.d.FormatPlaceholder(len(b.args))
}

func (b *builder) in(values ...any) string {
	ph := make([]string, len(values))
	for i, v := range values {
		ph[i] = b.arg(v)
	}
	return "(" + strings.Join(ph, ", ") + ")"
}

func int64s(ids []int64) []any {
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func strs(values ...string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// likeArg lower-cases a keyword and wraps it for a LIKE match.
func likeArg(keyword string) string {
	return "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
}

// tables resolves the qualified names of the tables a query needs.
func tables(ctx context.Context, insp *inspector.Inspector, names ...string) (map[string]string, error) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		t, err := insp.Table(ctx, name)
		if err != nil {
			return nil, err
		}
		out[name] = t.QualifiedName()
	}
	return out, nil
}
