package pool

import (
	"context"
	"sync"
	"time"

	"pooldb"
	"pooldb/datasource"
)

// DataSource is the pool engine: it owns the idle and active sets, the
// single mutex and condition variable, and the borrow/return algorithm.
// All state transitions happen under mu; there is no fine-grained
// locking anywhere in this package.
type DataSource struct {
	mu   sync.Mutex
	cond *sync.Cond

	idle   []*PooledConnection
	active []*PooledConnection

	source *datasource.Source
	config pooldb.PoolConfig

	expectedTypeCode uint64
	stats            Stats
	logger           pooldb.Logger
}

// NewDataSource builds a pool engine over source, starting with config
// (use pooldb.DefaultPoolConfig() for the documented defaults) and
// logger (use pooldb.NoopLogger to disable tracing).
func NewDataSource(source *datasource.Source, config pooldb.PoolConfig, logger pooldb.Logger) *DataSource {
	if logger == nil {
		logger = pooldb.NoopLogger
	}
	d := &DataSource{
		source: source,
		config: config,
		logger: logger,
		expectedTypeCode: pooldb.Fingerprint(
			source.Config.URL, source.Config.Username, source.Config.Password),
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Borrow obtains a logical connection, following spec.md §4.D exactly:
// reuse an idle record, open a fresh physical connection under the
// active cap, reclaim the oldest overdue borrower, or wait. It fails
// with pooldb.KindPoolExhausted once a single call's bad-connection
// budget (MaximumIdleConnections + MaximumLocalBadConnectionTolerance)
// is exceeded.
func (d *DataSource) Borrow(ctx context.Context, username, password string) (*Proxy, error) {
	start := time.Now()
	badCount := 0
	hasWaited := false

	d.mu.Lock()
	for {
		if ctx.Err() != nil {
			d.mu.Unlock()
			return nil, ctx.Err()
		}

		var candidate *PooledConnection

		switch {
		case len(d.idle) > 0:
			candidate = d.idle[0]
			d.idle = d.idle[1:]

		case len(d.active) < d.config.MaximumActiveConnections:
			d.mu.Unlock()
			physical, err := d.source.Open(ctx, username, password)
			d.mu.Lock()
			if err != nil {
				d.mu.Unlock()
				return nil, pooldb.NewError(pooldb.KindConnectionOpen, "pool.DataSource.Borrow", err)
			}
			// A concurrent Borrow may have filled the active set, or a
			// concurrent return may have refilled idle, while L was
			// released for the open above; both must be rechecked before
			// this connection is trusted, per spec.md §5's "recheck the
			// pool invariants before mutating lists" requirement. The
			// loser discards its physical connection and loops back into
			// the switch rather than parking it in idle: idle is only ever
			// populated by returning a previously active connection, so
			// active == max_active with idle non-empty never arises, and
			// depositing here would manufacture exactly that state for a
			// later idle-pop to overrun.
			if len(d.idle) > 0 || len(d.active) >= d.config.MaximumActiveConnections {
				d.mu.Unlock()
				_ = physical.Close()
				d.mu.Lock()
				continue
			}
			candidate = &PooledConnection{
				identity:   nextIdentity(),
				pool:       d,
				physical:   physical,
				createdAt:  nowMillis(),
				lastUsedAt: nowMillis(),
			}
			candidate.valid.Store(true)

		default:
			oldest := d.active[0]
			overdue := time.Duration(nowMillis()-oldest.checkedOut) * time.Millisecond
			if overdue > d.config.MaximumCheckoutTime {
				d.stats.OverdueCount++
				d.stats.AccumulatedOverdueCheckoutTime += overdue
				d.stats.AccumulatedCheckoutTime += overdue
				d.active = removeByIdentity(d.active, oldest)

				if ac, _ := oldest.physical.AutoCommit(); !ac {
					d.mu.Unlock()
					if err := oldest.physical.Rollback(); err != nil {
						d.logger.Printf("pool: rollback of reclaimed overdue connection failed: %v", err)
					}
					d.mu.Lock()
				}

				reclaimed := &PooledConnection{
					identity:   nextIdentity(),
					pool:       d,
					physical:   oldest.physical,
					createdAt:  oldest.createdAt,
					lastUsedAt: oldest.lastUsedAt,
				}
				reclaimed.valid.Store(true)
				oldest.Invalidate()
				candidate = reclaimed
			} else {
				if !hasWaited {
					d.stats.HadToWaitCount++
					hasWaited = true
				}
				waitStart := time.Now()
				d.waitWithTimeout(d.config.TimeToWait)
				d.stats.AccumulatedWaitTime += time.Since(waitStart)
				continue
			}
		}

		if !d.ping(candidate) {
			d.stats.BadConnectionCount++
			badCount++
			if badCount > d.config.MaximumIdleConnections+d.config.MaximumLocalBadConnectionTolerance {
				d.mu.Unlock()
				return nil, pooldb.NewError(pooldb.KindPoolExhausted, "pool.DataSource.Borrow", nil)
			}
			continue
		}

		if ac, _ := candidate.physical.AutoCommit(); !ac {
			if err := candidate.physical.Rollback(); err != nil {
				d.logger.Printf("pool: pre-borrow rollback failed: %v", err)
			}
		}
		// Empty credentials mean the configured defaults, as in
		// datasource.Source.Open, so they are fingerprinted as such.
		typeUser, typePass := username, password
		if typeUser == "" {
			typeUser = d.source.Config.Username
		}
		if typePass == "" {
			typePass = d.source.Config.Password
		}
		candidate.connectionTypeCode = pooldb.Fingerprint(d.source.Config.URL, typeUser, typePass)
		candidate.checkedOut = nowMillis()
		candidate.lastUsedAt = nowMillis()
		d.active = append(d.active, candidate)
		d.stats.RequestCount++
		d.stats.AccumulatedRequestTime += time.Since(start)
		d.mu.Unlock()
		return NewProxy(candidate), nil
	}
}

// release is the return path, invoked by Proxy.Close. It must never
// surface an error to the caller: failures are logged and folded into
// statistics only.
func (d *DataSource) release(record *PooledConnection) {
	d.mu.Lock()
	idx := indexByIdentity(d.active, record)
	if idx < 0 {
		// Already returned (or reclaimed away): a second Close on the
		// same proxy is a no-op.
		d.mu.Unlock()
		return
	}
	d.active = append(d.active[:idx:idx], d.active[idx+1:]...)

	if !d.ping(record) {
		d.stats.BadConnectionCount++
		d.mu.Unlock()
		return
	}

	d.stats.AccumulatedCheckoutTime += record.CheckoutTime()

	if ac, _ := record.physical.AutoCommit(); !ac {
		if err := record.physical.Rollback(); err != nil {
			// Open Question (a): rollback failures on the return path are
			// swallowed and logged, never surfaced, per spec.md §7's
			// "a caller closing a connection must never observe a
			// failure".
			d.logger.Printf("pool: return-path rollback failed (kind=%s): %v", pooldb.KindReturnRollback, err)
		}
	}

	keep := len(d.idle) < d.config.MaximumIdleConnections && record.connectionTypeCode == d.expectedTypeCode
	if keep {
		recycled := &PooledConnection{
			identity:   nextIdentity(),
			pool:       d,
			physical:   record.physical,
			createdAt:  record.createdAt,
			lastUsedAt: record.lastUsedAt,
		}
		recycled.valid.Store(true)
		record.Invalidate()
		d.idle = append(d.idle, recycled)
		d.cond.Signal()
	} else {
		_ = record.physical.Close()
		record.Invalidate()
	}
	d.mu.Unlock()
}

// ping is the liveness check of spec.md §4.D. The idle-duration
// threshold comparison is intentionally `>=`, so PingConnectionsNotUsedFor
// == 0 probes every non-closed connection when PingEnabled is set (see
// DESIGN.md, Open Question (b)).
func (d *DataSource) ping(record *PooledConnection) bool {
	if record.physical.Closed() {
		return false
	}
	if d.config.PingEnabled && record.IdleTime() >= d.config.PingConnectionsNotUsedFor {
		probeSQL := d.config.PingQuery
		if probeSQL == "NO PING QUERY SET" {
			probeSQL = ""
		}
		if err := record.physical.Ping(context.Background(), probeSQL); err != nil {
			_ = record.physical.Close()
			return false
		}
		if ac, _ := record.physical.AutoCommit(); !ac {
			if err := record.physical.Rollback(); err != nil {
				_ = record.physical.Close()
				return false
			}
		}
	}
	return true
}

// ForceCloseAll empties both lists and invalidates every record they
// held. Active records are invalidated in place: their holders keep a
// reference but any further proxy call fails with KindStaleConnection,
// and the eventual Close routes to release, which finds the record
// absent from active and returns as a no-op.
func (d *DataSource) ForceCloseAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.forceCloseAllLocked()
}

func (d *DataSource) forceCloseAllLocked() {
	for _, r := range d.idle {
		_ = r.physical.Close()
		r.Invalidate()
	}
	for _, r := range d.active {
		r.Invalidate()
	}
	d.idle = nil
	d.active = nil
}

// Snapshot returns an immutable copy of the pool's statistics, taken
// under the mutex so it cannot observe a torn update (see spec.md §9,
// "Statistics consistency").
func (d *DataSource) Snapshot() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.stats
	s.IdleCount = len(d.idle)
	s.ActiveCount = len(d.active)
	return s
}

// waitWithTimeout waits on d.cond for at most timeout. sync.Cond has no
// native timeout, so this races the condvar against a timer that
// broadcasts after the deadline; mu is held on entry and on return, per
// sync.Cond's contract.
func (d *DataSource) waitWithTimeout(timeout time.Duration) {
	fired := make(chan struct{})
	timer := time.AfterFunc(timeout, func() {
		d.mu.Lock()
		d.cond.Broadcast()
		d.mu.Unlock()
		close(fired)
	})
	d.cond.Wait()
	timer.Stop()
}

func indexByIdentity(list []*PooledConnection, target *PooledConnection) int {
	for i, r := range list {
		if r.Equals(target) {
			return i
		}
	}
	return -1
}

func removeByIdentity(list []*PooledConnection, target *PooledConnection) []*PooledConnection {
	idx := indexByIdentity(list, target)
	if idx < 0 {
		return list
	}
	return append(list[:idx:idx], list[idx+1:]...)
}
