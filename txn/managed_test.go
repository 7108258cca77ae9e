package txn

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"pooldb"
)

func TestManagedTransactionCommitRollbackAreNoops(t *testing.T) {
	ds := newTestDataSource(t)
	tx := NewManaged(ds, pooldb.IsolationNone, true)

	conn, err := tx.Connection(context.Background())
	require.NoError(t, err)
	require.NotNil(t, conn)

	// Neither call ever reaches the driver: an outer controller owns
	// commit/rollback for a managed transaction.
	require.NoError(t, tx.Commit())
	require.NoError(t, tx.Rollback())

	require.NoError(t, tx.Close())
	require.Equal(t, 0, ds.Snapshot().ActiveCount)
}

func TestManagedTransactionCloseRespectsCloseConnectionFlag(t *testing.T) {
	ds := newTestDataSource(t)
	tx := NewManaged(ds, pooldb.IsolationNone, false)

	_, err := tx.Connection(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, ds.Snapshot().ActiveCount)

	require.NoError(t, tx.Close())
	// closeConnection=false: the connection is left checked out, its
	// disposition left to whatever outer owner handed it out.
	require.Equal(t, 1, ds.Snapshot().ActiveCount)
}

func TestManagedTransactionAfterCloseIsErrClosed(t *testing.T) {
	ds := newTestDataSource(t)
	tx := NewManaged(ds, pooldb.IsolationNone, true)

	_, err := tx.Connection(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Close())

	_, err = tx.Connection(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, tx.Commit(), ErrClosed)
	require.ErrorIs(t, tx.Rollback(), ErrClosed)
}

func TestManagedTransactionAppliesIsolationOnFirstBorrow(t *testing.T) {
	ds, fd := newTestDataSourceWithDriver(t)
	tx := NewManaged(ds, pooldb.IsolationRepeatableRead, true)

	// The fake dialect phrases isolation as a real statement, so the
	// fake connection records whether ManagedTransaction issued it.
	conn, err := tx.Connection(context.Background())
	require.NoError(t, err)
	require.NotNil(t, conn)
	require.Contains(t, fd.last().statements, "SET ISOLATION REPEATABLE_READ")

	require.NoError(t, tx.Close())
}
