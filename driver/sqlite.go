package driver

import (
	"time"

	sqldriver "database/sql/driver"

	"github.com/mattn/go-sqlite3"

	"pooldb"
)

// SQLiteDriver returns the driver.Driver value for mattn/go-sqlite3.
func SQLiteDriver() sqldriver.Driver {
	return &sqlite3.SQLiteDriver{}
}

// SQLiteDialect implements Dialect for mattn/go-sqlite3. SQLite is a
// single-connection, file-level embedded engine: it has no session
// isolation or network-timeout concept, and its autocommit mode is
// controlled by whether a transaction is open rather than by a session
// variable, so those statements are reported unsupported.
type SQLiteDialect struct{}

func (SQLiteDialect) Name() string { return "sqlite3" }

func (SQLiteDialect) PingQuery() string { return "SELECT 1" }

func (SQLiteDialect) AutoCommitStatement(enable bool) (string, bool) {
	return "", false
}

func (SQLiteDialect) IsolationStatement(level pooldb.IsolationLevel) (string, bool) {
	return "", false
}

func (SQLiteDialect) NetworkTimeoutStatement(d time.Duration) (string, bool) {
	return "", false
}
