package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"

	"github.com/leapstack-labs/inspectomop/pkg/dialect"
)

type attachment struct {
	file   string
	schema string
}

func attachStatement(d *dialect.Dialect, schema string) string {
	return fmt.Sprintf("ATTACH DATABASE ? AS %s", d.QuoteIdentifier(schema))
}

// attachConnector opens sqlite connections and replays every ATTACH on them.
type attachConnector struct {
	dsn     string
	drv     driver.Driver
	dialect *dialect.Dialect

	mu       sync.Mutex
	attached []attachment
}

func newAttachConnector(dsn string, d *dialect.Dialect) (*attachConnector, error) {
	// sql.Open only resolves the registered driver; nothing is dialed.
	probe, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite driver: %w", err)
	}
	drv := probe.Driver()
	_ = probe.Close()

	return &attachConnector{dsn: dsn, drv: drv, dialect: d}, nil
}

func (c *attachConnector) add(at attachment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = append(c.attached, at)
}

func (c *attachConnector) list() []attachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]attachment(nil), c.attached...)
}

// Connect implements driver.Connector.
func (c *attachConnector) Connect(ctx context.Context) (driver.Conn, error) {
	conn, err := c.drv.Open(c.dsn)
	if err != nil {
		return nil, err
	}

	attached := c.list()
	if len(attached) == 0 {
		return conn, nil
	}

	execer, ok := conn.(driver.ExecerContext)
	if !ok {
		_ = conn.Close()
		return nil, errors.New("sqlite driver connection does not support ExecContext")
	}
	for _, at := range attached {
		args := []driver.NamedValue{{Ordinal: 1, Value: at.file}}
		if _, err := execer.ExecContext(ctx, attachStatement(c.dialect, at.schema), args); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to attach %s as %s: %w", at.file, at.schema, err)
		}
	}
	return conn, nil
}

// Driver implements driver.Connector.
func (c *attachConnector) Driver() driver.Driver {
	return c.drv
}
