// Package txn implements the transaction layer: local transactions that
// drive commit/rollback directly on a borrowed connection, and managed
// transactions that only expose the connection to an outer transaction
// controller. Both variants are lazy: the connection is not borrowed
// until the first call to Connection.
package txn

import (
	"context"
	"errors"

	"pooldb/pool"
)

// ErrClosed is returned by Connection, Commit, Rollback and
// LocalTransaction's savepoint methods once Close has completed; a second
// Close returns nil. The savepoint methods also return it while no
// connection has been acquired yet.
var ErrClosed = errors.New("pooldb/txn: transaction already closed")

// Transaction is the common contract both variants satisfy.
type Transaction interface {
	// Connection lazily acquires a pooled connection on first call and
	// caches it for the remainder of the transaction's life.
	Connection(ctx context.Context) (pool.Conn, error)
	Commit() error
	Rollback() error
	Close() error
	// Timeout always reports ok=false: neither variant tracks a
	// transaction-level timeout.
	Timeout() (seconds int, ok bool)
}
