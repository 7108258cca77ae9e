package txn

import (
	"context"
	"sync"

	"pooldb"
	"pooldb/pool"
)

// LocalTransaction drives commit and rollback itself, directly on the
// connection it holds. It is lazy: no connection is borrowed until the
// first call to Connection, so a transaction that is opened and then
// never used never touches the pool.
//
// Two construction routes exist, matching the two ways a transaction can
// come by its connection: NewLocal borrows one itself on first use;
// NewLocalFromConnection is handed one the caller already owns (e.g. a
// connection pulled out of a ManagedTransaction for local nested work).
type LocalTransaction struct {
	mu sync.Mutex

	ds         *pool.DataSource
	isolation  pooldb.IsolationLevel
	autoCommit bool
	logger     pooldb.Logger

	skipAutoCommitResetOnClose bool
	ownsConnection             bool

	conn   pool.Conn
	closed bool
}

// NewLocal returns a LocalTransaction that borrows its own connection
// from ds on first use, setting isolation and autoCommit on it before
// handing it back to the caller. A nil logger falls back to
// pooldb.NoopLogger.
func NewLocal(ds *pool.DataSource, isolation pooldb.IsolationLevel, autoCommit bool, skipAutoCommitResetOnClose bool, logger pooldb.Logger) *LocalTransaction {
	if logger == nil {
		logger = pooldb.NoopLogger
	}
	return &LocalTransaction{
		ds:                         ds,
		isolation:                  isolation,
		autoCommit:                 autoCommit,
		logger:                     logger,
		skipAutoCommitResetOnClose: skipAutoCommitResetOnClose,
		ownsConnection:             true,
	}
}

// NewLocalFromConnection returns a LocalTransaction over a connection the
// caller already borrowed. Isolation and auto-commit are left untouched:
// whoever borrowed conn is responsible for having configured it. A nil
// logger falls back to pooldb.NoopLogger.
func NewLocalFromConnection(conn pool.Conn, skipAutoCommitResetOnClose bool, logger pooldb.Logger) *LocalTransaction {
	if logger == nil {
		logger = pooldb.NoopLogger
	}
	return &LocalTransaction{
		conn:                       conn,
		logger:                     logger,
		skipAutoCommitResetOnClose: skipAutoCommitResetOnClose,
		ownsConnection:             false,
	}
}

// Connection lazily borrows (Mode A) or returns the already-held (Mode B)
// connection, applying the requested isolation level and auto-commit
// setting exactly once, on first acquisition.
func (t *LocalTransaction) Connection(ctx context.Context) (pool.Conn, error) {
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
	if cur, err := conn.AutoCommit(); err == nil && cur != t.autoCommit {
		if err := conn.SetAutoCommit(t.autoCommit); err != nil {
			_ = conn.Close()
			return nil, pooldb.NewError(pooldb.KindAutoCommitConfig, "txn.LocalTransaction.Connection", err)
		}
	}

	t.conn = conn
	return t.conn, nil
}

// Commit is a no-op unless a connection has already been acquired and
// that connection is not in auto-commit mode.
func (t *LocalTransaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.conn == nil {
		return nil
	}
	if ac, err := t.conn.AutoCommit(); err != nil || ac {
		return err
	}
	return t.conn.Commit()
}

// Rollback is a no-op unless a connection has already been acquired and
// that connection is not in auto-commit mode.
func (t *LocalTransaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.conn == nil {
		return nil
	}
	if ac, err := t.conn.AutoCommit(); err != nil || ac {
		return err
	}
	return t.conn.Rollback()
}

// Close resets auto-commit to true as a compatibility measure for
// callers that assume a returned connection is back in auto-commit mode,
// unless skipAutoCommitResetOnClose was set at construction. Failures
// during that reset are logged and swallowed rather than surfaced to the
// caller; Close then returns the connection to the pool regardless.
func (t *LocalTransaction) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	if t.conn == nil {
		return nil
	}
	if !t.skipAutoCommitResetOnClose {
		if err := t.conn.SetAutoCommit(true); err != nil {
			t.logger.Printf("txn: auto-commit reset on close failed: %v", err)
		}
	}
	return t.conn.Close()
}

// Timeout always reports ok=false: LocalTransaction tracks no
// transaction-level deadline of its own.
func (t *LocalTransaction) Timeout() (seconds int, ok bool) { return 0, false }

// Savepoint, RollbackToSavepoint, and ReleaseSavepoint require a
// connection to already be held: callers must call Connection first.
// They return ErrClosed before that and after Close.
func (t *LocalTransaction) Savepoint(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.conn == nil {
		return ErrClosed
	}
	return t.conn.Savepoint(name)
}

func (t *LocalTransaction) RollbackToSavepoint(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.conn == nil {
		return ErrClosed
	}
	return t.conn.RollbackToSavepoint(name)
}

func (t *LocalTransaction) ReleaseSavepoint(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed || t.conn == nil {
		return ErrClosed
	}
	return t.conn.ReleaseSavepoint(name)
}
