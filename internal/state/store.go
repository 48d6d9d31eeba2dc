// Package state keeps the CLI's query history in a local SQLite database.
package state

import (
	"context"
	"time"
)

// QueryRecord is one executed query.
type QueryRecord struct {
	ID            string
	ConnectionURL string
	Query         string
	RowCount      int64
	Duration      time.Duration
	// Error is empty when the query succeeded.
	Error      string
	ExecutedAt time.Time
}

// Succeeded reports whether the query ran without error.
func (r *QueryRecord) Succeeded() bool {
	return r.Error == ""
}

// Store persists query history.
type Store interface {
	Open(path string) error
	Close() error
	Migrate(ctx context.Context) error

	// RecordQuery stores rec, filling in ID and ExecutedAt when unset.
	RecordQuery(ctx context.Context, rec *QueryRecord) error
	// ListQueries returns the most recent records first. A limit <= 0
	// returns every record.
	ListQueries(ctx context.Context, limit int) ([]*QueryRecord, error)
	ClearQueries(ctx context.Context) (int64, error)
}
