package pool

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"pooldb"
)

// fakeVendorDriver is a hand-rolled database/sql/driver.Driver used for
// deterministic unit tests of the borrow/return state machine, instead
// of hitting a real database. It counts every Open call so tests can
// assert exactly how many physical connections were created, and keeps
// every issued fakeConn reachable so tests can inject failures into a
// connection already handed to the pool.
type fakeVendorDriver struct {
	opens atomic.Int64
	// failAllQueries, when set, makes every connection this driver has
	// ever opened (past or future) fail every query/ping for as long as
	// it stays set.
	failAllQueries atomic.Bool
	// openBarrier, when set, is called at the start of every Open so a
	// test can force two concurrent opens to overlap deliberately.
	openBarrier func()

	mu    sync.Mutex
	conns []*fakeConn
}

func (d *fakeVendorDriver) Open(dsn string) (driver.Conn, error) {
	if d.openBarrier != nil {
		d.openBarrier()
	}
	d.opens.Add(1)
	c := &fakeConn{alwaysFail: &d.failAllQueries}
	d.mu.Lock()
	d.conns = append(d.conns, c)
	d.mu.Unlock()
	return c, nil
}

// last returns the most recently opened fakeConn.
func (d *fakeVendorDriver) last() *fakeConn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conns[len(d.conns)-1]
}

// fakeConn is a minimal driver.Conn: it implements ExecerContext and
// QueryerContext directly (as all four vendor drivers this module wires
// do), so PhysicalConn never falls back to Prepare+Stmt in tests.
type fakeConn struct {
	closed        atomic.Bool
	failNextQuery atomic.Bool
	failNextExec  atomic.Bool
	alwaysFail    *atomic.Bool
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{conn: c}, nil
}

func (c *fakeConn) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("fakeConn: Begin not supported, use raw COMMIT/ROLLBACK statements")
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	if c.closed.Load() {
		return nil, errors.New("fakeConn: exec on closed connection")
	}
	if c.failNextExec.CompareAndSwap(true, false) {
		return nil, errors.New("fakeConn: injected exec failure")
	}
	return fakeResult{}, nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	if c.closed.Load() {
		return nil, errors.New("fakeConn: query on closed connection")
	}
	if c.failNextQuery.CompareAndSwap(true, false) {
		return nil, errors.New("fakeConn: injected ping failure")
	}
	if c.alwaysFail != nil && c.alwaysFail.Load() {
		return nil, errors.New("fakeConn: injected persistent ping failure")
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

func (r *fakeRows) Columns() []string { return nil }
func (r *fakeRows) Close() error      { return nil }
func (r *fakeRows) Next(dest []driver.Value) error {
	return io.EOF
}

// fakeDialect is a trivial Dialect used by tests: auto-commit and
// isolation are reported unsupported via SQL (PhysicalConn then only
// tracks the flag in-process), matching how SQLiteDialect behaves.
type fakeDialect struct{}

func (fakeDialect) Name() string                                            { return "fake" }
func (fakeDialect) PingQuery() string                                       { return "SELECT 1" }
func (fakeDialect) AutoCommitStatement(bool) (string, bool)                 { return "", false }
func (fakeDialect) IsolationStatement(pooldb.IsolationLevel) (string, bool) { return "", false }
func (fakeDialect) NetworkTimeoutStatement(time.Duration) (string, bool)    { return "", false }
