// Package adapter provides database adapter interfaces and implementations
// for inspectomop's schema reflection and query execution.
//
// This package contains the public contract that all database adapters must implement.
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/inspectomop/pkg/core"
	"github.com/leapstack-labs/inspectomop/pkg/dialect"
)

// Type aliases for the shared types defined in pkg/core.
type (
	// Config is an alias for core.AdapterConfig.
	Config = core.AdapterConfig

	// Column is an alias for core.Column.
	Column = core.Column

	// Metadata is an alias for core.TableMetadata.
	Metadata = core.TableMetadata

	// Rows is an alias for core.Rows.
	Rows = core.Rows
)

// Adapter defines the interface that all database adapters must implement.
// It provides methods for connecting to databases, executing SQL, and
// reflecting table structure.
type Adapter interface {
	// Connect establishes a connection pool to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the connection pool and releases resources.
	Close() error

	// Pool returns the underlying connection pool, or nil before Connect.
	Pool() *sql.DB

	// Exec executes a SQL statement that doesn't return rows (e.g., INSERT, UPDATE, CREATE).
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// ListSchemas returns the schemas whose tables should be reflected.
	ListSchemas(ctx context.Context) ([]string, error)

	// ListTables returns the base table names in a schema, sorted.
	ListTables(ctx context.Context, schema string) ([]string, error)

	// GetTableMetadata retrieves column and primary key metadata for a table.
	// The table may be qualified as schema.table.
	GetTableMetadata(ctx context.Context, table string) (*Metadata, error)

	// Dialect returns the SQL dialect configuration for this adapter.
	// It is used to format placeholders and quote identifiers.
	Dialect() *dialect.Dialect
}

// Attacher is implemented by adapters that can attach additional database
// files to an open connection pool under a schema name.
type Attacher interface {
	Attach(ctx context.Context, file, schema string) error
}
