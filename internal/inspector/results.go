package inspector

import (
	"database/sql"
	"fmt"
	"iter"
)

// Results wraps a row cursor and materializes it into frames.
//
// Frame and Chunks close the results once the rows are consumed. Results
// returned by Inspector.Execute own their connection and release it on Close.
type Results struct {
	rows    *sql.Rows
	columns []string
	types   []string
	release func() error
	closed  bool
}

func newResults(rows *sql.Rows, release func() error) (*Results, error) {
	cols, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read result columns: %w", err)
	}
	r := &Results{rows: rows, columns: cols, release: release}
	if colTypes, err := rows.ColumnTypes(); err == nil {
		r.types = make([]string, len(colTypes))
		for i, ct := range colTypes {
			r.types[i] = ct.DatabaseTypeName()
		}
	}
	return r, nil
}

// Columns returns the result column names.
func (r *Results) Columns() []string {
	return append([]string(nil), r.columns...)
}

// Next advances the cursor.
func (r *Results) Next() bool {
	return r.rows.Next()
}

// Scan copies the current row into dest.
func (r *Results) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Err returns the error encountered during iteration, if any.
func (r *Results) Err() error {
	return r.rows.Err()
}

// Close closes the cursor and releases an owned connection. Safe to call
// more than once.
func (r *Results) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.rows.Close()
	if r.release != nil {
		if rerr := r.release(); err == nil {
			err = rerr
		}
	}
	return err
}

func (r *Results) scanRow() ([]any, error) {
	values := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}

// FetchOne returns the next row, or nil when the results are exhausted.
func (r *Results) FetchOne() ([]any, error) {
	rows, err := r.FetchMany(1)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// FetchMany returns up to n rows. Fewer rows means the results are exhausted.
func (r *Results) FetchMany(n int) ([][]any, error) {
	if r.closed {
		return nil, nil
	}
	var out [][]any
	for len(out) < n && r.rows.Next() {
		row, err := r.scanRow()
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
	if err := r.rows.Err(); err != nil {
		return out, fmt.Errorf("error iterating results: %w", err)
	}
	return out, nil
}

// FetchAll returns every remaining row.
func (r *Results) FetchAll() ([][]any, error) {
	if r.closed {
		return nil, nil
	}
	var out [][]any
	for r.rows.Next() {
		row, err := r.scanRow()
		if err != nil {
			return out, err
		}
		out = append(out, row)
	}
	if err := r.rows.Err(); err != nil {
		return out, fmt.Errorf("error iterating results: %w", err)
	}
	return out, nil
}

func (r *Results) frame(rows [][]any) *Frame {
	f := &Frame{Columns: r.Columns(), Rows: rows}
	coerceDates(f, r.types)
	return f
}

// Frame fetches all remaining rows into a single frame and closes the results.
func (r *Results) Frame() (*Frame, error) {
	defer func() { _ = r.Close() }()
	rows, err := r.FetchAll()
	if err != nil {
		return nil, err
	}
	return r.frame(rows), nil
}

// Chunks lazily yields frames of at most size rows. The last frame may be
// shorter and an empty result yields nothing. The results are closed when
// iteration ends, including on early break.
func (r *Results) Chunks(size int) iter.Seq2[*Frame, error] {
	return func(yield func(*Frame, error) bool) {
		defer func() { _ = r.Close() }()
		if size <= 0 {
			yield(nil, fmt.Errorf("chunk size must be positive, got %d", size))
			return
		}
		for {
			rows, err := r.FetchMany(size)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(rows) == 0 {
				return
			}
			if !yield(r.frame(rows), nil) {
				return
			}
			if len(rows) < size {
				return
			}
		}
	}
}
