package inspector

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

type tableRef struct {
	schema string
	name   string
}

// reflect lists the tables of every reflected schema and loads their
// metadata with bounded parallelism. Callers hold i.mu.
func (i *Inspector) reflect(ctx context.Context) (map[string]*Table, error) {
	start := time.Now()

	schemas, err := i.adp.ListSchemas(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	var refs []tableRef
	for _, schema := range schemas {
		names, err := i.adp.ListTables(ctx, schema)
		if err != nil {
			return nil, fmt.Errorf("failed to list tables in %s: %w", schema, err)
		}
		for _, name := range names {
			refs = append(refs, tableRef{schema: schema, name: name})
		}
	}

	d := i.adp.Dialect()
	reflected := make([]*Table, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)
	for idx, ref := range refs {
		g.Go(func() error {
			md, err := i.adp.GetTableMetadata(gctx, ref.schema+"."+ref.name)
			if err != nil {
				return fmt.Errorf("failed to reflect %s.%s: %w", ref.schema, ref.name, err)
			}
			reflected[idx] = newTable(md, d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(map[string]*Table, len(reflected))
	for _, t := range reflected {
		if prev, ok := tables[t.Name]; ok {
			return nil, fmt.Errorf("%w: %s in %s and %s", ErrDuplicateTable, t.Name, prev.Schema, t.Schema)
		}
		tables[t.Name] = t
	}

	i.logger.Debug("reflected tables",
		slog.Int("schemas", len(schemas)),
		slog.Int("tables", len(tables)),
		slog.Duration("elapsed", time.Since(start)))
	return tables, nil
}
