package driver

import (
	"fmt"
	"time"

	sqldriver "database/sql/driver"

	"github.com/go-sql-driver/mysql"

	"pooldb"
)

// MySQLDriver returns the driver.Driver value for go-sql-driver/mysql,
// suitable for registering with a Gateway without going through
// database/sql's own sql.Register (which this package avoids entirely).
func MySQLDriver() sqldriver.Driver {
	return mysql.MySQLDriver{}
}

// MySQLDialect implements Dialect for go-sql-driver/mysql.
type MySQLDialect struct{}

func (MySQLDialect) Name() string { return "mysql" }

func (MySQLDialect) PingQuery() string { return "SELECT 1" }

func (MySQLDialect) AutoCommitStatement(enable bool) (string, bool) {
	if enable {
		return "SET autocommit=1", true
	}
	return "SET autocommit=0", true
}

func (MySQLDialect) IsolationStatement(level pooldb.IsolationLevel) (string, bool) {
	switch level {
	case pooldb.IsolationReadUncommitted:
		return "SET SESSION TRANSACTION ISOLATION LEVEL READ UNCOMMITTED", true
	case pooldb.IsolationReadCommitted:
		return "SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED", true
	case pooldb.IsolationRepeatableRead:
		return "SET SESSION TRANSACTION ISOLATION LEVEL REPEATABLE READ", true
	case pooldb.IsolationSerializable:
		return "SET SESSION TRANSACTION ISOLATION LEVEL SERIALIZABLE", true
	default:
		return "", false
	}
}

func (MySQLDialect) NetworkTimeoutStatement(d time.Duration) (string, bool) {
	return fmt.Sprintf("SET SESSION net_read_timeout=%d, net_write_timeout=%d",
		int(d.Seconds()), int(d.Seconds())), true
}
