package pool

import (
	"time"

	"pooldb"
)

// Every setter below mutates the datasource's identity-affecting
// configuration, recomputes expectedTypeCode, and force-closes the pool,
// exactly as spec.md §4.D "Reconfiguration" requires. Records held by
// active borrowers at the moment of reconfiguration are invalidated in
// place; the return path's type-code check steers them to a physical
// close instead of reuse once each holder eventually closes.

func (d *DataSource) reconfigureLocked() {
	d.expectedTypeCode = pooldb.Fingerprint(
		d.source.Config.URL, d.source.Config.Username, d.source.Config.Password)
	d.forceCloseAllLocked()
}

// ReconfigureURL changes the connection URL.
func (d *DataSource) ReconfigureURL(url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.URL = url
	d.reconfigureLocked()
}

// ReconfigureUsername changes the default username.
func (d *DataSource) ReconfigureUsername(username string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.Username = username
	d.reconfigureLocked()
}

// ReconfigurePassword changes the default password.
func (d *DataSource) ReconfigurePassword(password string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.Password = password
	d.reconfigureLocked()
}

// ReconfigureDriver changes the registered driver class name.
func (d *DataSource) ReconfigureDriver(class string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.Driver = class
	d.reconfigureLocked()
}

// ReconfigureDriverProperties replaces the driver property bag.
func (d *DataSource) ReconfigureDriverProperties(props map[string]string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.Properties = props
	d.reconfigureLocked()
}

// ReconfigureAutoCommit changes the default auto-commit setting applied
// to freshly opened connections.
func (d *DataSource) ReconfigureAutoCommit(autoCommit bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.AutoCommit = &autoCommit
	d.reconfigureLocked()
}

// ReconfigureIsolation changes the default isolation level.
func (d *DataSource) ReconfigureIsolation(level pooldb.IsolationLevel) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.DefaultTransactionIsolationLevel = level
	d.reconfigureLocked()
}

// ReconfigureNetworkTimeout changes the default network timeout.
func (d *DataSource) ReconfigureNetworkTimeout(timeoutMillis int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.source.Config.DefaultNetworkTimeout = time.Duration(timeoutMillis) * time.Millisecond
	d.reconfigureLocked()
}

// ReconfigureMaxActive changes the active-set cap.
func (d *DataSource) ReconfigureMaxActive(max int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.config.MaximumActiveConnections = max
	d.reconfigureLocked()
}

// ReconfigureMaxIdle changes the idle-set cap.
func (d *DataSource) ReconfigureMaxIdle(max int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.config.MaximumIdleConnections = max
	d.reconfigureLocked()
}

