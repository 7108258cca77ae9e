package driver

import (
	"time"

	"pooldb"
)

// Dialect supplies the handful of session-level SQL statements the pool
// needs from a given vendor. It is deliberately narrow: SQL generation
// for table creation, inserts, or result mapping is out of scope for this
// layer.
type Dialect interface {
	// Name identifies the dialect for logging and status reports.
	Name() string
	// PingQuery is the vendor's trivial liveness probe, used only when
	// the configured PoolConfig.PingQuery is empty or still the default
	// "NO PING QUERY SET".
	PingQuery() string
	// AutoCommitStatement renders the statement that toggles
	// auto-commit, if the vendor supports doing so via plain SQL.
	AutoCommitStatement(enable bool) (stmt string, ok bool)
	// IsolationStatement renders the statement that sets the session
	// isolation level, if the vendor exposes one.
	IsolationStatement(level pooldb.IsolationLevel) (stmt string, ok bool)
	// NetworkTimeoutStatement renders the statement that sets a session
	// network/statement timeout, if the vendor exposes one via SQL.
	NetworkTimeoutStatement(d time.Duration) (stmt string, ok bool)
}
