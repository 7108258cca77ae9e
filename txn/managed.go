package txn

import (
	"context"
	"sync"

	"pooldb"
	"pooldb/pool"
)

// ManagedTransaction defers commit and rollback entirely to an outer
// transaction controller (an application container, a distributed
// transaction coordinator) that this package knows nothing about.
// Commit and Rollback are no-ops; besides the isolation level Connection
// applies on first borrow, only Close ever touches the connection, and
// only when configured to.
type ManagedTransaction struct {
	mu sync.Mutex

	ds             *pool.DataSource
	isolation      pooldb.IsolationLevel
	closeOnClose   bool
	ownsConnection bool

	conn   pool.Conn
	closed bool
}

// NewManaged returns a ManagedTransaction that borrows its own
// connection from ds on first use, applying isolation to it before
// handing it back to the caller. closeConnection controls whether Close
// physically returns the connection to the pool; a caller relying on an
// outer container to close the connection itself should pass false.
func NewManaged(ds *pool.DataSource, isolation pooldb.IsolationLevel, closeConnection bool) *ManagedTransaction {
	return &ManagedTransaction{ds: ds, isolation: isolation, closeOnClose: closeConnection, ownsConnection: true}
}

// NewManagedFromConnection returns a ManagedTransaction wrapping a
// connection the caller already borrowed.
func NewManagedFromConnection(conn pool.Conn, closeConnection bool) *ManagedTransaction {
	return &ManagedTransaction{conn: conn, closeOnClose: closeConnection, ownsConnection: false}
}

// Connection lazily acquires the connection on first call.
func (t *ManagedTransaction) Connection(ctx context.Context) (pool.Conn, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil, ErrClosed
	}
	if t.conn != nil {
		return t.conn, nil
	}
	if !t.ownsConnection {
		return nil, ErrClosed
	}

	conn, err := t.ds.Borrow(ctx, "", "")
	if err != nil {
		return nil, err
	}

	if t.isolation != pooldb.IsolationNone {
		if err := conn.SetIsolation(t.isolation); err != nil {
			_ = conn.Close()
			return nil, err
		}
	}

	t.conn = conn
	return t.conn, nil
}

// Commit is always a no-op: a managed transaction's connection is driven
// by whatever outer controller handed it out, never by this layer.
func (t *ManagedTransaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return nil
}

// Rollback is always a no-op, for the same reason as Commit.
func (t *ManagedTransaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrClosed
	}
	return nil
}

// Close returns the connection to the pool only if this transaction was
// configured with closeConnection true; otherwise it leaves the
// connection alone for its outer owner to deal with.
func (t *ManagedTransaction) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if t.conn == nil || !t.closeOnClose {
		return nil
	}
	return t.conn.Close()
}

// Timeout always reports ok=false.
func (t *ManagedTransaction) Timeout() (seconds int, ok bool) { return 0, false }
