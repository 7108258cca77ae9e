package driver

import (
	"fmt"
	"time"

	sqldriver "database/sql/driver"

	"github.com/jackc/pgx/v5/stdlib"

	"pooldb"
)

// PostgresDriver returns the driver.Driver value pgx registers for the
// "pgx" database/sql driver name, reused here directly instead of going
// through sql.Register.
func PostgresDriver() sqldriver.Driver {
	return stdlib.GetDefaultDriver()
}

// PostgresDialect implements Dialect for github.com/jackc/pgx/v5.
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) PingQuery() string { return "SELECT 1" }

func (PostgresDialect) AutoCommitStatement(enable bool) (string, bool) {
	// Postgres has no session-level autocommit toggle reachable via plain
	// SQL; autocommit is purely a client-side notion of "am I inside a
	// BEGIN block", which the pool tracks itself.
	return "", false
}

func (PostgresDialect) IsolationStatement(level pooldb.IsolationLevel) (string, bool) {
	switch level {
	case pooldb.IsolationReadUncommitted:
		return "SET SESSION CHARACTERISTICS AS TRANSACTION ISOLATION LEVEL READ UNCOMMITTED", true
	case pooldb.IsolationReadCommitted:
		return "SET SESSION CHARACTERISTICS AS TRANSACTION ISOLATION LEVEL READ COMMITTED", true
	case pooldb.IsolationRepeatableRead:
		return "SET SESSION CHARACTERISTICS AS TRANSACTION ISOLATION LEVEL REPEATABLE READ", true
	case pooldb.IsolationSerializable:
		return "SET SESSION CHARACTERISTICS AS TRANSACTION ISOLATION LEVEL SERIALIZABLE", true
	default:
		return "", false
	}
}

func (PostgresDialect) NetworkTimeoutStatement(d time.Duration) (string, bool) {
	return fmt.Sprintf("SET statement_timeout = %d", d.Milliseconds()), true
}
