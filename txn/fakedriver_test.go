package txn

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
	"time"

	"pooldb"
)

// fakeVendorDriver is a minimal database/sql/driver.Driver for exercising
// the transaction layer without a real database, tracking auto-commit
// and isolation state entirely through the statements PhysicalConn
// issues against it.
type fakeVendorDriver struct {
	mu    sync.Mutex
	conns []*fakeConn
}

func (d *fakeVendorDriver) Open(dsn string) (driver.Conn, error) {
	c := &fakeConn{}
	d.mu.Lock()
	d.conns = append(d.conns, c)
	d.mu.Unlock()
	return c, nil
}

// last returns the most recently opened fakeConn, for tests that need to
// poison a connection already handed to the transaction layer.
func (d *fakeVendorDriver) last() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[len(d.conns)-1]
}

type fakeConn struct {
	closed       bool
	failNextExec bool
	// statements records every statement passed to ExecContext, in order.
	statements []string
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) { return &fakeStmt{conn: c}, nil }
func (c *fakeConn) Close() error                              { c.closed = true; return nil }
func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("fakeConn: Begin not supported")
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.statements = append(c.statements, query)
	if c.closed {
		return nil, errors.New("fakeConn: exec on closed connection")
	}
	if c.failNextExec {
		c.failNextExec = false
		return nil, errors.New("fakeConn: injected exec failure")
	}
	return fakeResult{}, nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.closed {
		return nil, errors.New("fakeConn: query on closed connection")
	}
	return &fakeRows{}, nil
}

type fakeStmt struct{ conn *fakeConn }

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.conn.ExecContext(context.Background(), "", nil)
}
func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.conn.QueryContext(context.Background(), "", nil)
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 0, nil }

type fakeRows struct{}

func (r *fakeRows) Columns() []string              { return nil }
func (r *fakeRows) Close() error                   { return nil }
func (r *fakeRows) Next(dest []driver.Value) error { return io.EOF }

// fakeDialect reports disabling auto-commit and network timeouts
// unsupported via SQL, so PhysicalConn tracks auto-commit=false purely
// in-process, the same as SQLiteDialect. Re-enabling auto-commit and
// setting isolation are phrased as real statements so tests can observe
// them (and poison the reset-on-close path).
type fakeDialect struct{}

func (fakeDialect) Name() string      { return "fake" }
func (fakeDialect) PingQuery() string { return "SELECT 1" }
func (fakeDialect) AutoCommitStatement(enable bool) (string, bool) {
	if enable {
		return "SET autocommit=1", true
	}
	return "", false
}
func (fakeDialect) IsolationStatement(level pooldb.IsolationLevel) (string, bool) {
	return "SET ISOLATION " + level.String(), true
}
func (fakeDialect) NetworkTimeoutStatement(time.Duration) (string, bool) { return "", false }
