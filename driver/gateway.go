// Package driver implements the driver gateway and the per-vendor
// dialects that sit directly on top of database/sql/driver. It
// deliberately builds below database/sql's own connection pool: the pool
// package owns the idle/active bookkeeping, so a second pool layered
// underneath it would fight for the same job.
package driver

import (
	"database/sql/driver"
	"sync"

	"pooldb"
)

// Gateway is a process-wide registry of driver.Driver values keyed by
// driver class name. Registration is idempotent: re-registering the same
// class name is a silent no-op rather than a panic, which is why Gateway
// keeps its own map instead of calling sql.Register (database/sql panics
// on duplicate registration, and this gateway may be constructed more
// than once per process in tests).
type Gateway struct {
	mu       sync.Mutex
	registry map[string]driver.Driver
}

// NewGateway returns an empty Gateway.
func NewGateway() *Gateway {
	return &Gateway{registry: make(map[string]driver.Driver)}
}

// RegisterDriver associates class with d. A second call for the same
// class is a no-op, even if d differs from what is already registered.
func (g *Gateway) RegisterDriver(class string, d driver.Driver) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.registry[class]; ok {
		return
	}
	g.registry[class] = d
}

// Open looks up the driver registered under class and opens dsn against
// it, returning the raw driver.Conn. Callers build their own pooling on
// top of this; database/sql is not involved.
func (g *Gateway) Open(class, dsn string) (driver.Conn, error) {
	g.mu.Lock()
	d, ok := g.registry[class]
	g.mu.Unlock()
	if !ok {
		return nil, pooldb.NewError(pooldb.KindDriverSetup, "driver.Gateway.Open",
			&unregisteredDriverError{class: class})
	}
	conn, err := d.Open(dsn)
	if err != nil {
		return nil, pooldb.NewError(pooldb.KindConnectionOpen, "driver.Gateway.Open", err)
	}
	return conn, nil
}

type unregisteredDriverError struct{ class string }

func (e *unregisteredDriverError) Error() string {
	return "no driver registered for class " + e.class
}
