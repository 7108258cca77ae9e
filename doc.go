// Package pooldb implements a database connection pool and a minimal
// transaction abstraction on top of it.
//
// Applications obtain logical connections from a pool.DataSource. When a
// logical connection is closed, the underlying physical connection is
// returned to the pool for reuse instead of being torn down. A
// txn.Transaction built on top of a pooled connection lets callers drive
// commit/rollback without caring whether the transaction is owned locally
// (this layer issues COMMIT/ROLLBACK directly) or by an outer transaction
// manager (in which case commit/rollback are no-ops and only the
// connection is exposed).
//
// Six packages divide the responsibility:
//
//	pooldb            cross-cutting types: isolation levels, tagged
//	                  errors, logging, configuration, fingerprinting.
//	pooldb/driver     the driver gateway and the per-vendor dialects that
//	                  sit directly on top of database/sql/driver.
//	pooldb/datasource builds one fresh physical connection per request,
//	                  with no pooling.
//	pooldb/pool       the pool engine: idle/active sets, borrow/return,
//	                  overdue reclaim, liveness checks, statistics.
//	pooldb/txn        local and managed transactions over a pooled
//	                  connection.
//	pooldb/metrics    a Prometheus exporter over pool statistics.
package pooldb
