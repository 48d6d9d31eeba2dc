// Package inspector reflects OMOP CDM databases and runs queries on them.
//
// An Inspector owns a connection pool for one database URL. Table structure
// is reflected on first use and cached until Invalidate, AttachSQLiteDB or
// Close. Reflected tables are grouped into the six fixed CDM categories.
package inspector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	"github.com/leapstack-labs/inspectomop/pkg/dialect"

	// Register the supported database adapters.
	_ "github.com/leapstack-labs/inspectomop/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/inspectomop/pkg/adapters/mysql"
	_ "github.com/leapstack-labs/inspectomop/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/inspectomop/pkg/adapters/sqlite"
)

// Sentinel errors.
var (
	ErrTableNotFound      = errors.New("table not found")
	ErrDuplicateTable     = errors.New("table name appears in more than one schema")
	ErrUnsupportedDialect = errors.New("operation not supported for this dialect")
	ErrClosed             = errors.New("inspector is closed")
)

const defaultReflectConcurrency = 4

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Inspector) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithReflectConcurrency bounds the number of tables reflected in parallel.
func WithReflectConcurrency(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.concurrency = n
		}
	}
}

// WithAdapterParams passes dialect specific parameters to the adapter
// (e.g. DuckDB settings and extensions).
func WithAdapterParams(params map[string]any) Option {
	return func(i *Inspector) {
		i.params = params
	}
}

// Inspector inspects and queries one OMOP CDM database.
type Inspector struct {
	url         string
	adp         adapter.Adapter
	logger      *slog.Logger
	concurrency int
	params      map[string]any

	mu     sync.Mutex
	tables map[string]*Table
}

// New connects to the database at connectionURL.
//
// The URL has the form dialect[+driver]://user:pass@host:port/database.
// File databases use three slashes: sqlite:///relative.db,
// sqlite:////abs/path.db, or sqlite:// for an in-memory database.
func New(ctx context.Context, connectionURL string, opts ...Option) (*Inspector, error) {
	i := &Inspector{
		url:         connectionURL,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: defaultReflectConcurrency,
	}
	for _, opt := range opts {
		opt(i)
	}

	cfg, err := adapter.ParseURL(connectionURL)
	if err != nil {
		return nil, err
	}
	cfg.Params = i.params

	adp, err := adapter.NewAdapter(cfg, i.logger)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("connecting", slog.String("url", adapter.RedactURL(connectionURL)), slog.String("dialect", cfg.Type))
	if err := adp.Connect(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", adapter.RedactURL(connectionURL), err)
	}
	i.adp = adp
	return i, nil
}

// ConnectionURL returns the URL the inspector was created with.
func (i *Inspector) ConnectionURL() string {
	return i.url
}

// Dialect returns the SQL dialect of the database.
func (i *Inspector) Dialect() *dialect.Dialect {
	return i.adp.Dialect()
}

// DB returns the underlying connection pool. Prefer Connect or Execute.
func (i *Inspector) DB() *sql.DB {
	return i.adp.Pool()
}

// Tables returns every reflected table keyed by name. Reflection runs on
// the first call and the result is cached.
func (i *Inspector) Tables(ctx context.Context) (map[string]*Table, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.tables == nil {
		if i.adp.Pool() == nil {
			return nil, ErrClosed
		}
		tables, err := i.reflect(ctx)
		if err != nil {
			return nil, err
		}
		i.tables = tables
	}
	return maps.Clone(i.tables), nil
}

// Table returns one reflected table.
func (i *Inspector) Table(ctx context.Context, name string) (*Table, error) {
	tables, err := i.Tables(ctx)
	if err != nil {
		return nil, err
	}
	t, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return t, nil
}

// Invalidate drops the cached reflection. The next Tables call reflects again.
func (i *Inspector) Invalidate() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.tables = nil
}

// AttachSQLiteDB attaches another SQLite database file under schema. Its
// tables are included the next time tables are reflected.
func (i *Inspector) AttachSQLiteDB(ctx context.Context, file, schema string) error {
	att, ok := i.adp.(adapter.Attacher)
	if !ok || i.Dialect().Name != "sqlite" {
		return fmt.Errorf("%w: attach requires sqlite, got %s", ErrUnsupportedDialect, i.Dialect().Name)
	}
	i.logger.Debug("attaching database", slog.String("file", file), slog.String("schema", schema))
	if err := att.Attach(ctx, file, schema); err != nil {
		return err
	}
	i.Invalidate()
	return nil
}

// Execute runs a query on a pooled connection owned by the returned
// results. Closing the results releases the connection.
func (i *Inspector) Execute(ctx context.Context, query string, args ...any) (*Results, error) {
	c, err := i.Connect(ctx)
	if err != nil {
		return nil, err
	}
	res, err := c.Execute(ctx, query, args...)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	res.release = c.Close
	return res, nil
}

// Close closes the connection pool and drops the cache.
func (i *Inspector) Close() error {
	i.Invalidate()
	return i.adp.Close()
}
