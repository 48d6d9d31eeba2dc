// Package sqlite provides a SQLite database adapter for inspectomop, backed
// by the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/leapstack-labs/inspectomop/pkg/adapter"
	sqlitedialect "github.com/leapstack-labs/inspectomop/pkg/adapters/sqlite/dialect"
	"github.com/leapstack-labs/inspectomop/pkg/dialect"

	_ "modernc.org/sqlite" // sqlite driver
)

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
	connector *attachConnector
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{BaseSQLAdapter: adapter.NewBase(logger)}
}

// Dialect returns the SQLite dialect.
func (a *Adapter) Dialect() *dialect.Dialect {
	return sqlitedialect.SQLite
}

// Connect opens the database file (or ":memory:") behind a single-connection
// pool, so every handle sees the same database and its attachments.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	path := cfg.Path
	if path == "" {
		path = adapter.MemoryPath
	}
	dsn := path
	if len(cfg.Options) > 0 {
		q := url.Values{}
		for k, v := range cfg.Options {
			q.Set(k, v)
		}
		dsn += "?" + q.Encode()
	}

	a.Logger.Debug("connecting to sqlite", slog.String("path", path))

	connector, err := newAttachConnector(dsn, a.Dialect())
	if err != nil {
		return err
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	a.connector = connector
	return nil
}

// Close closes the pool and forgets attached databases.
func (a *Adapter) Close() error {
	a.connector = nil
	return a.BaseSQLAdapter.Close()
}

// Attach attaches another database file under schema. The attachment is
// applied to the live connection and replayed on every new connection.
func (a *Adapter) Attach(ctx context.Context, file, schema string) error {
	if a.DB == nil {
		return adapter.ErrNotConnected
	}
	if file == "" || schema == "" {
		return errors.New("attach requires a database file and a schema name")
	}

	existing, err := a.ListSchemas(ctx)
	if err != nil {
		return err
	}
	for _, s := range existing {
		if s == schema {
			return fmt.Errorf("schema %q is already attached", schema)
		}
	}

	a.Logger.Debug("attaching sqlite database", slog.String("file", file), slog.String("schema", schema))

	if _, err := a.DB.ExecContext(ctx, attachStatement(a.Dialect(), schema), file); err != nil {
		return fmt.Errorf("failed to attach %s as %s: %w", file, schema, err)
	}
	a.connector.add(attachment{file: file, schema: schema})
	return nil
}

// Attached returns the databases attached so far, in attach order.
func (a *Adapter) Attached() []string {
	if a.connector == nil {
		return nil
	}
	var out []string
	for _, at := range a.connector.list() {
		out = append(out, at.schema)
	}
	return out
}

// ListSchemas returns main plus every attached database. The temp schema is
// excluded.
func (a *Adapter) ListSchemas(ctx context.Context) ([]string, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	rows, err := a.DB.QueryContext(ctx, "PRAGMA database_list")
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var schemas []string
	for rows.Next() {
		var (
			seq  int
			name string
			file sql.NullString
		)
		if err := rows.Scan(&seq, &name, &file); err != nil {
			return nil, fmt.Errorf("failed to scan database list: %w", err)
		}
		if name == "temp" {
			continue
		}
		schemas = append(schemas, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating database list: %w", err)
	}
	return schemas, nil
}

// ListTables lists the tables of a schema, skipping sqlite internal tables.
func (a *Adapter) ListTables(ctx context.Context, schema string) ([]string, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	//nolint:gosec // schema is quoted by the dialect
	query := fmt.Sprintf(`
		SELECT name FROM %s.sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%%'
		ORDER BY name
	`, a.Dialect().QuoteIdentifier(schema))

	rows, err := a.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tables: %w", err)
	}
	return names, nil
}

// GetTableMetadata reads columns and primary key from PRAGMA table_info.
// Types are as SQLite reports them: a column declared blob comes back as
// BLOB, and a column declared without a type has an empty type.
func (a *Adapter) GetTableMetadata(ctx context.Context, table string) (*adapter.Metadata, error) {
	if a.DB == nil {
		return nil, adapter.ErrNotConnected
	}

	d := a.Dialect()
	schema, name := adapter.ParseQualifiedName(table, a.DefaultSchema(d))

	//nolint:gosec // identifiers are quoted by the dialect
	query := fmt.Sprintf("PRAGMA %s.table_info(%s)", d.QuoteIdentifier(schema), d.QuoteIdentifier(name))
	rows, err := a.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query column metadata: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var (
		columns []adapter.Column
		pk      []string
	)
	for rows.Next() {
		var (
			cid     int
			col     adapter.Column
			notNull int
			dflt    sql.NullString
			pkIndex int
		)
		if err := rows.Scan(&cid, &col.Name, &col.Type, &notNull, &dflt, &pkIndex); err != nil {
			return nil, fmt.Errorf("failed to scan column metadata: %w", err)
		}
		col.Position = cid + 1
		col.Nullable = notNull == 0
		if pkIndex > 0 {
			pk = append(pk, col.Name)
		}
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating column metadata: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	adapter.MarkPrimaryKey(columns, pk)

	return &adapter.Metadata{Schema: schema, Name: name, Columns: columns}, nil
}

// Ensure Adapter implements the adapter interfaces.
var (
	_ adapter.Adapter  = (*Adapter)(nil)
	_ adapter.Attacher = (*Adapter)(nil)
)
