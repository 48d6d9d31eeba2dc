package inspector

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
)

// Connection is a single connection checked out of the inspector's pool.
type Connection struct {
	conn   *sql.Conn
	logger *slog.Logger

	mu     sync.Mutex
	closed bool
}

// Connect checks a connection out of the pool. The caller must Close it.
//
// File databases use a single-connection pool, so holding a Connection
// blocks every other handle until it is closed. Call Tables before Connect
// when both are needed.
func (i *Inspector) Connect(ctx context.Context) (*Connection, error) {
	db := i.adp.Pool()
	if db == nil {
		return nil, ErrClosed
	}
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return &Connection{conn: conn, logger: i.logger}, nil
}

// WithConnection runs fn on a pooled connection and releases it on every
// exit path, panics included.
func (i *Inspector) WithConnection(ctx context.Context, fn func(*Connection) error) error {
	c, err := i.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()
	return fn(c)
}

// Close returns the connection to the pool. Safe to call more than once.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Execute runs a statement that returns rows. The results borrow the
// connection and must be consumed or closed before the next statement.
func (c *Connection) Execute(ctx context.Context, query string, args ...any) (*Results, error) {
	c.logger.Debug("executing query", slog.String("sql", query), slog.Int("args", len(args)))
	//nolint:rowserrcheck // Results checks rows.Err() while fetching
	rows, err := c.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return newResults(rows, nil)
}

// Exec runs a statement that does not return rows.
func (c *Connection) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	c.logger.Debug("executing statement", slog.String("sql", query))
	res, err := c.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute statement: %w", err)
	}
	return res, nil
}
