package txn

import (
	"pooldb"
	"pooldb/pool"
)

// LocalFactory builds LocalTransaction values from a fixed
// TxManagerConfig, mirroring the two construction routes
// LocalTransaction itself exposes.
type LocalFactory struct {
	ds     *pool.DataSource
	config pooldb.TxManagerConfig
	logger pooldb.Logger
}

// NewLocalFactory returns a LocalFactory bound to ds and config. A nil
// logger falls back to pooldb.NoopLogger.
func NewLocalFactory(ds *pool.DataSource, config pooldb.TxManagerConfig, logger pooldb.Logger) *LocalFactory {
	if logger == nil {
		logger = pooldb.NoopLogger
	}
	return &LocalFactory{ds: ds, config: config, logger: logger}
}

// New borrows its own connection on first use of the returned
// transaction, applying isolation and autoCommit to it.
func (f *LocalFactory) New(isolation pooldb.IsolationLevel, autoCommit bool) *LocalTransaction {
	return NewLocal(f.ds, isolation, autoCommit, f.config.SkipSetAutoCommitOnClose, f.logger)
}

// NewFromConnection wraps a connection the caller already borrowed,
// applying no isolation/autocommit setup of its own.
func (f *LocalFactory) NewFromConnection(conn pool.Conn) *LocalTransaction {
	return NewLocalFromConnection(conn, f.config.SkipSetAutoCommitOnClose, f.logger)
}

// ManagedFactory builds ManagedTransaction values from a fixed
// TxManagerConfig.
type ManagedFactory struct {
	ds     *pool.DataSource
	config pooldb.TxManagerConfig
}

// NewManagedFactory returns a ManagedFactory bound to ds and config.
func NewManagedFactory(ds *pool.DataSource, config pooldb.TxManagerConfig) *ManagedFactory {
	return &ManagedFactory{ds: ds, config: config}
}

// New borrows its own connection on first use, applying isolation to
// it. The requested auto-commit flag is ignored: a managed
// transaction's commit/rollback are driven entirely by its outer owner,
// so negotiating auto-commit here would only be overwritten later.
func (f *ManagedFactory) New(isolation pooldb.IsolationLevel, _ bool) *ManagedTransaction {
	return NewManaged(f.ds, isolation, f.config.CloseConnection)
}

// NewFromConnection wraps a connection the caller already borrowed.
func (f *ManagedFactory) NewFromConnection(conn pool.Conn) *ManagedTransaction {
	return NewManagedFromConnection(conn, f.config.CloseConnection)
}
