package driver

import (
	"time"

	sqldriver "database/sql/driver"

	mssql "github.com/microsoft/go-mssqldb"

	"pooldb"
)

// SQLServerDriver returns the driver.Driver value for
// github.com/microsoft/go-mssqldb.
func SQLServerDriver() sqldriver.Driver {
	return &mssql.Driver{}
}

// SQLServerDialect implements Dialect for github.com/microsoft/go-mssqldb.
type SQLServerDialect struct{}

func (SQLServerDialect) Name() string { return "sqlserver" }

func (SQLServerDialect) PingQuery() string { return "SELECT 1" }

func (SQLServerDialect) AutoCommitStatement(enable bool) (string, bool) {
	if enable {
		return "SET IMPLICIT_TRANSACTIONS OFF", true
	}
	return "SET IMPLICIT_TRANSACTIONS ON", true
}

func (SQLServerDialect) IsolationStatement(level pooldb.IsolationLevel) (string, bool) {
	switch level {
	case pooldb.IsolationReadUncommitted:
		return "SET TRANSACTION ISOLATION LEVEL READ UNCOMMITTED", true
	case pooldb.IsolationReadCommitted:
		return "SET TRANSACTION ISOLATION LEVEL READ COMMITTED", true
	case pooldb.IsolationRepeatableRead:
		return "SET TRANSACTION ISOLATION LEVEL REPEATABLE READ", true
	case pooldb.IsolationSerializable:
		return "SET TRANSACTION ISOLATION LEVEL SERIALIZABLE", true
	case pooldb.IsolationSQLServerSnapshot:
		return "SET TRANSACTION ISOLATION LEVEL SNAPSHOT", true
	default:
		return "", false
	}
}

func (SQLServerDialect) NetworkTimeoutStatement(d time.Duration) (string, bool) {
	return "", false
}
