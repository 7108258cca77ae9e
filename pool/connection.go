// Package pool implements the pooled connection and the pool engine: the
// idle/active sets, the single mutex and condition variable, the
// borrow/return algorithm, the overdue-reclaim policy, the ping-based
// liveness check, and pool-wide statistics. This is the hard core spec.md
// calls out as dominating the implementation.
package pool

import (
	"context"
	"sync/atomic"
	"time"

	"pooldb"
	"pooldb/driver"
)

// Conn is the capability a caller sees once it has borrowed a connection:
// a thin, proxy-shaped view over the physical connection that redirects
// Close to the pool instead of tearing the physical connection down.
type Conn interface {
	Exec(ctx context.Context, query string) error
	Query(ctx context.Context, query string) error
	AutoCommit() (bool, error)
	SetAutoCommit(enable bool) error
	SetIsolation(level pooldb.IsolationLevel) error
	Commit() error
	Rollback() error
	Close() error

	// Savepoint, RollbackToSavepoint, and ReleaseSavepoint are only
	// meaningful to a caller that itself owns commit/rollback on this
	// connection, which in practice means a local transaction.
	Savepoint(name string) error
	RollbackToSavepoint(name string) error
	ReleaseSavepoint(name string) error
}

// PooledConnection is one record in the pool's idle or active set. It is
// never shared between the two: transitions between idle, active, and
// dead are made exclusively by DataSource under its mutex.
type PooledConnection struct {
	identity   uint64 // process-local monotonic id, the record's own identity
	pool       *DataSource
	physical   *driver.PhysicalConn
	createdAt  int64 // unix millis
	lastUsedAt int64
	checkedOut int64

	connectionTypeCode uint64
	valid              atomic.Bool
}

var identitySeq atomic.Uint64

func nextIdentity() uint64 { return identitySeq.Add(1) }

func nowMillis() int64 { return time.Now().UnixMilli() }

// Identity returns this record's process-local identity, used for
// equality and as a stand-in for a hashCode.
func (p *PooledConnection) Identity() uint64 { return p.identity }

// Equals compares two pooled records by identity.
func (p *PooledConnection) Equals(other *PooledConnection) bool {
	if other == nil {
		return false
	}
	return p.identity == other.identity
}

// Age is the time elapsed since the physical connection was first
// opened.
func (p *PooledConnection) Age() time.Duration {
	return time.Duration(nowMillis()-p.createdAt) * time.Millisecond
}

// IdleTime is the time elapsed since the record was last handed to a
// caller.
func (p *PooledConnection) IdleTime() time.Duration {
	return time.Duration(nowMillis()-p.lastUsedAt) * time.Millisecond
}

// CheckoutTime is the time elapsed since this record was borrowed.
func (p *PooledConnection) CheckoutTime() time.Duration {
	return time.Duration(nowMillis()-p.checkedOut) * time.Millisecond
}

// Invalidate clears the valid flag with no other side effect. Any
// further call through this record's Proxy fails with
// pooldb.KindStaleConnection.
func (p *PooledConnection) Invalidate() {
	p.valid.Store(false)
}

// Proxy is the handle callers actually hold. Its Close routes to the
// pool's return path; every other method forwards to the physical
// connection unless the record has been invalidated.
type Proxy struct {
	record *PooledConnection
}

// NewProxy wraps record.
func NewProxy(record *PooledConnection) *Proxy { return &Proxy{record: record} }

func (x *Proxy) checkValid(op string) error {
	if !x.record.valid.Load() {
		return pooldb.NewError(pooldb.KindStaleConnection, op, nil)
	}
	return nil
}

func (x *Proxy) Exec(ctx context.Context, query string) error {
	if err := x.checkValid("pool.Proxy.Exec"); err != nil {
		return err
	}
	return x.record.physical.Exec(ctx, query)
}

func (x *Proxy) Query(ctx context.Context, query string) error {
	if err := x.checkValid("pool.Proxy.Query"); err != nil {
		return err
	}
	return x.record.physical.Query(ctx, query)
}

func (x *Proxy) AutoCommit() (bool, error) {
	if err := x.checkValid("pool.Proxy.AutoCommit"); err != nil {
		return false, err
	}
	return x.record.physical.AutoCommit()
}

func (x *Proxy) SetAutoCommit(enable bool) error {
	if err := x.checkValid("pool.Proxy.SetAutoCommit"); err != nil {
		return err
	}
	return x.record.physical.SetAutoCommit(enable)
}

func (x *Proxy) SetIsolation(level pooldb.IsolationLevel) error {
	if err := x.checkValid("pool.Proxy.SetIsolation"); err != nil {
		return err
	}
	return x.record.physical.SetIsolation(level)
}

// Savepoint, RollbackToSavepoint, and ReleaseSavepoint give a local
// transaction driver-level control over nested rollback points. They are
// only meaningful when this layer itself owns commit/rollback, so only
// the local transaction variant uses them.
func (x *Proxy) Savepoint(name string) error {
	if err := x.checkValid("pool.Proxy.Savepoint"); err != nil {
		return err
	}
	return x.record.physical.Exec(context.Background(), "SAVEPOINT "+name)
}

func (x *Proxy) RollbackToSavepoint(name string) error {
	if err := x.checkValid("pool.Proxy.RollbackToSavepoint"); err != nil {
		return err
	}
	return x.record.physical.Exec(context.Background(), "ROLLBACK TO SAVEPOINT "+name)
}

func (x *Proxy) ReleaseSavepoint(name string) error {
	if err := x.checkValid("pool.Proxy.ReleaseSavepoint"); err != nil {
		return err
	}
	return x.record.physical.Exec(context.Background(), "RELEASE SAVEPOINT "+name)
}

func (x *Proxy) Commit() error {
	if err := x.checkValid("pool.Proxy.Commit"); err != nil {
		return err
	}
	return x.record.physical.Commit()
}

func (x *Proxy) Rollback() error {
	if err := x.checkValid("pool.Proxy.Rollback"); err != nil {
		return err
	}
	return x.record.physical.Rollback()
}

// Close never touches the physical connection directly: it hands the
// record back to the owning pool, which decides whether to recycle or
// physically close it. A second Close on an already-returned proxy is a
// no-op, because the record is no longer in the active set.
func (x *Proxy) Close() error {
	x.record.pool.release(x.record)
	return nil
}

// Record exposes the underlying PooledConnection, e.g. for tests that
// need to inspect timestamps directly.
func (x *Proxy) Record() *PooledConnection { return x.record }
