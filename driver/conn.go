package driver

import (
	"context"
	"database/sql/driver"
	"io"
	"time"

	"pooldb"
)

// PhysicalConn wraps a raw database/sql/driver.Conn together with the
// Dialect that knows how to phrase session-level SQL for it. It is the
// "physical connection" of spec.md §3: auto-commit get/set, isolation
// set, network-timeout set, rollback, close, and tiny-statement
// execution, with no statement caching or result mapping layered on top.
type PhysicalConn struct {
	conn       driver.Conn
	dialect    Dialect
	autoCommit bool
	closed     bool
}

// NewPhysicalConn wraps conn. The connection is assumed to start in
// auto-commit mode, matching every wired driver's default.
func NewPhysicalConn(conn driver.Conn, dialect Dialect) *PhysicalConn {
	return &PhysicalConn{conn: conn, dialect: dialect, autoCommit: true}
}

// Closed reports whether Close has been called on this physical
// connection.
func (c *PhysicalConn) Closed() bool { return c.closed }

// AutoCommit returns the last-known auto-commit setting. Drivers do not
// expose a portable wire-level "get autocommit" call, so PhysicalConn
// tracks its own boolean: it is the only caller that ever changes it.
func (c *PhysicalConn) AutoCommit() (bool, error) {
	return c.autoCommit, nil
}

// SetAutoCommit sets auto-commit if the dialect supports doing so via
// plain SQL; otherwise it only updates the tracked flag (true for vendors
// where auto-commit is a purely client-side notion, e.g. Postgres and
// SQLite).
func (c *PhysicalConn) SetAutoCommit(enable bool) error {
	if stmt, ok := c.dialect.AutoCommitStatement(enable); ok {
		if err := c.exec(context.Background(), stmt); err != nil {
			return pooldb.NewError(pooldb.KindAutoCommitConfig, "driver.PhysicalConn.SetAutoCommit", err)
		}
	}
	c.autoCommit = enable
	return nil
}

// SetIsolation applies level via the dialect's isolation statement, if
// the dialect has one.
func (c *PhysicalConn) SetIsolation(level pooldb.IsolationLevel) error {
	stmt, ok := c.dialect.IsolationStatement(level)
	if !ok {
		return nil
	}
	return c.exec(context.Background(), stmt)
}

// SetNetworkTimeout applies d via the dialect's network-timeout
// statement, if it has one.
func (c *PhysicalConn) SetNetworkTimeout(d time.Duration) error {
	stmt, ok := c.dialect.NetworkTimeoutStatement(d)
	if !ok {
		return nil
	}
	return c.exec(context.Background(), stmt)
}

// Rollback issues an ANSI ROLLBACK. All four wired dialects accept this
// literal form, so no per-vendor statement is needed.
func (c *PhysicalConn) Rollback() error {
	return c.exec(context.Background(), "ROLLBACK")
}

// Commit issues an ANSI COMMIT.
func (c *PhysicalConn) Commit() error {
	return c.exec(context.Background(), "COMMIT")
}

// Close closes the underlying driver.Conn.
func (c *PhysicalConn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Ping executes probeSQL (falling back to the dialect's own PingQuery
// when probeSQL is empty) and discards the result, returning any error
// from execution.
func (c *PhysicalConn) Ping(ctx context.Context, probeSQL string) error {
	if probeSQL == "" {
		probeSQL = c.dialect.PingQuery()
	}
	return c.query(ctx, probeSQL)
}

// Exec runs a statement that does not return rows.
func (c *PhysicalConn) Exec(ctx context.Context, query string) error {
	return c.exec(ctx, query)
}

// Query runs a statement that may return rows, discarding them; it
// exists alongside Exec so callers exercising the pool end-to-end have a
// read path distinct from the write path, mirroring the split the
// database/sql driver contract itself makes.
func (c *PhysicalConn) Query(ctx context.Context, query string) error {
	return c.query(ctx, query)
}

func (c *PhysicalConn) exec(ctx context.Context, query string) error {
	if ec, ok := c.conn.(driver.ExecerContext); ok {
		_, err := ec.ExecContext(ctx, query, nil)
		if err != driver.ErrSkip {
			return err
		}
	}
	if e, ok := c.conn.(driver.Execer); ok { //nolint:staticcheck // fallback for conservative drivers
		_, err := e.Exec(query, nil)
		if err != driver.ErrSkip {
			return err
		}
	}
	stmt, err := c.conn.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.Exec(nil) //nolint:staticcheck // Stmt.Exec is the only portable path here
	return err
}

func (c *PhysicalConn) query(ctx context.Context, query string) error {
	var rows driver.Rows
	var err error
	if qc, ok := c.conn.(driver.QueryerContext); ok {
		rows, err = qc.QueryContext(ctx, query, nil)
		if err != nil && err != driver.ErrSkip {
			return err
		}
	}
	if rows == nil {
		if q, ok := c.conn.(driver.Queryer); ok { //nolint:staticcheck // fallback for conservative drivers
			rows, err = q.Query(query, nil)
			if err != nil && err != driver.ErrSkip {
				return err
			}
		}
	}
	if rows == nil {
		stmt, err := c.conn.Prepare(query)
		if err != nil {
			return err
		}
		defer stmt.Close()
		rows, err = stmt.Query(nil) //nolint:staticcheck // Stmt.Query is the only portable path here
		if err != nil {
			return err
		}
	}
	defer rows.Close()
	dest := make([]driver.Value, len(rows.Columns()))
	for {
		if err := rows.Next(dest); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}
