package datasource_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"pooldb"
	"pooldb/datasource"
	pooldriver "pooldb/driver"
)

type fakeConn struct {
	statements []string
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	return &fakeStmt{conn: c, query: query}, nil
}
func (c *fakeConn) Close() error { return nil }
func (c *fakeConn) Begin() (driver.Tx, error) {
	return nil, errors.New("fakeConn: Begin not supported")
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.statements = append(c.statements, query)
	return fakeResult{}, nil
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.statements = append(c.statements, query)
	return &fakeRows{}, nil
}

type fakeStmt struct {
	conn  *fakeConn
	query string
}

func (s *fakeStmt) Close() error  { return nil }
func (s *fakeStmt) NumInput() int { return -1 }
func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	return s.conn.ExecContext(context.Background(), s.query, nil)
}
func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	return s.conn.QueryContext(context.Background(), s.query, nil)
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 0, nil }

type fakeRows struct{}

func (r *fakeRows) Columns() []string              { return nil }
func (r *fakeRows) Close() error                   { return nil }
func (r *fakeRows) Next(dest []driver.Value) error { return io.EOF }

type fakeVendorDriver struct {
	lastConn *fakeConn
}

func (d *fakeVendorDriver) Open(dsn string) (driver.Conn, error) {
	d.lastConn = &fakeConn{}
	return d.lastConn, nil
}

// fakeDialect reports every session statement supported, so Source.Open
// can be observed issuing all three in order.
type fakeDialect struct{}

func (fakeDialect) Name() string      { return "fake" }
func (fakeDialect) PingQuery() string { return "SELECT 1" }
func (fakeDialect) AutoCommitStatement(enable bool) (string, bool) {
	if enable {
		return "AUTOCOMMIT ON", true
	}
	return "AUTOCOMMIT OFF", true
}
func (fakeDialect) IsolationStatement(level pooldb.IsolationLevel) (string, bool) {
	return "ISOLATION " + level.String(), true
}
func (fakeDialect) NetworkTimeoutStatement(d time.Duration) (string, bool) {
	return "TIMEOUT", true
}

type UnpooledSourceSuite struct {
	suite.Suite
}

func TestUnpooledSourceSuite(t *testing.T) {
	suite.Run(t, new(UnpooledSourceSuite))
}

func (s *UnpooledSourceSuite) TestOpenAppliesTimeoutAutoCommitAndIsolationInOrder() {
	gw := pooldriver.NewGateway()
	fd := &fakeVendorDriver{}
	gw.RegisterDriver("fake", fd)

	autoCommit := false
	src := datasource.New(gw, pooldb.DriverConfig{
		Driver:                           "fake",
		URL:                              "fake://host/db",
		DefaultNetworkTimeout:            5 * time.Second,
		AutoCommit:                       &autoCommit,
		DefaultTransactionIsolationLevel: pooldb.IsolationSerializable,
	}, fakeDialect{})

	conn, err := src.Open(context.Background(), "alice", "secret")
	s.Require().NoError(err)
	s.Require().NotNil(conn)

	s.Equal([]string{"TIMEOUT", "AUTOCOMMIT OFF", "ISOLATION SERIALIZABLE"}, fd.lastConn.statements)

	ac, err := conn.AutoCommit()
	s.Require().NoError(err)
	s.False(ac)
}

func (s *UnpooledSourceSuite) TestOpenSkipsAutoCommitWhenAlreadyMatching() {
	gw := pooldriver.NewGateway()
	fd := &fakeVendorDriver{}
	gw.RegisterDriver("fake", fd)

	autoCommit := true
	src := datasource.New(gw, pooldb.DriverConfig{
		Driver:     "fake",
		URL:        "fake://host/db",
		AutoCommit: &autoCommit,
	}, fakeDialect{})

	conn, err := src.Open(context.Background(), "", "")
	s.Require().NoError(err)
	s.Empty(fd.lastConn.statements, "connections start in autocommit=true, matching the requested default")

	ac, err := conn.AutoCommit()
	s.Require().NoError(err)
	s.True(ac)
}
