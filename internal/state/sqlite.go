package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotOpen is returned by store operations before Open.
var ErrNotOpen = errors.New("history database not opened")

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite history store.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{}
}

// Open opens the SQLite database at path. Use ":memory:" for an in-memory
// database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	// One writer; for :memory: every connection would otherwise be a new database.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping history database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func generateID() string {
	return uuid.New().String()
}

// RecordQuery stores a query record.
func (s *SQLiteStore) RecordQuery(ctx context.Context, rec *QueryRecord) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if rec.ID == "" {
		rec.ID = generateID()
	}
	if rec.ExecutedAt.IsZero() {
		rec.ExecutedAt = time.Now().UTC()
	}

	var errMsg sql.NullString
	if rec.Error != "" {
		errMsg = sql.NullString{String: rec.Error, Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (id, connection_url, query, row_count, duration_ms, error, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ConnectionURL, rec.Query, rec.RowCount, rec.Duration.Milliseconds(), errMsg, rec.ExecutedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record query: %w", err)
	}
	return nil
}

// ListQueries returns recorded queries, newest first.
func (s *SQLiteStore) ListQueries(ctx context.Context, limit int) ([]*QueryRecord, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	query := `SELECT id, connection_url, query, row_count, duration_ms, error, executed_at
		FROM query_history
		ORDER BY executed_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*QueryRecord
	for rows.Next() {
		rec := &QueryRecord{}
		var durationMS int64
		var errMsg sql.NullString
		if err := rows.Scan(&rec.ID, &rec.ConnectionURL, &rec.Query, &rec.RowCount, &durationMS, &errMsg, &rec.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query record: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.Error = errMsg.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	return records, nil
}

// ClearQueries deletes every record and returns how many were removed.
func (s *SQLiteStore) ClearQueries(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM query_history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear queries: %w", err)
	}
	return res.RowsAffected()
}

var _ Store = (*SQLiteStore)(nil)
