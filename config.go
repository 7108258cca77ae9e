package pooldb

import (
	"strconv"
	"strings"
	"time"
)

// PoolConfig holds the eight operator-tunable pool settings, each with the
// documented default.
type PoolConfig struct {
	// MaximumActiveConnections is the hard cap on the active set.
	MaximumActiveConnections int
	// MaximumIdleConnections is the hard cap on the idle set.
	MaximumIdleConnections int
	// MaximumCheckoutTime is how long a borrow may run before it becomes
	// reclaimable by a new borrower.
	MaximumCheckoutTime time.Duration
	// TimeToWait bounds a single wait cycle on the pool's condition
	// variable.
	TimeToWait time.Duration
	// MaximumLocalBadConnectionTolerance is how many extra validation
	// failures a single borrow call tolerates before giving up.
	MaximumLocalBadConnectionTolerance int
	// PingQuery is the probe SQL executed against idle connections when
	// PingEnabled is true.
	PingQuery string
	// PingEnabled turns on the idle-connection liveness probe.
	PingEnabled bool
	// PingConnectionsNotUsedFor is the idle-duration threshold that
	// triggers a probe; zero means every non-closed connection is probed.
	PingConnectionsNotUsedFor time.Duration
}

// DefaultPoolConfig returns the documented defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaximumActiveConnections:           10,
		MaximumIdleConnections:             5,
		MaximumCheckoutTime:                20 * time.Second,
		TimeToWait:                         20 * time.Second,
		MaximumLocalBadConnectionTolerance: 3,
		PingQuery:                          "NO PING QUERY SET",
		PingEnabled:                        false,
		PingConnectionsNotUsedFor:          0,
	}
}

// DriverConfig describes how to reach the database and configure a fresh
// physical connection.
type DriverConfig struct {
	Driver   string
	URL      string
	Username string
	Password string

	// Properties are driver-specific connection properties (collected
	// from any flat property map via CollectDriverProperties, or built
	// directly by the caller).
	Properties map[string]string

	// DefaultTransactionIsolationLevel, when non-zero, is applied to
	// every freshly opened connection.
	DefaultTransactionIsolationLevel IsolationLevel
	// DefaultNetworkTimeout, when non-zero, is applied to every freshly
	// opened connection.
	DefaultNetworkTimeout time.Duration
	// AutoCommit, when non-nil, is applied if it differs from the
	// connection's current auto-commit setting.
	AutoCommit *bool
}

// CollectDriverProperties extracts every "driver.<name>" entry from a flat
// property map into a new map keyed by <name> with the prefix stripped.
// This is the one piece of property-string conversion pooldb keeps in
// scope; markup/config-file loading is not its concern.
func CollectDriverProperties(flat map[string]string) map[string]string {
	const prefix = "driver."
	out := make(map[string]string)
	for k, v := range flat {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// BoolProperty parses a boolean-valued entry out of a flat property map,
// returning def if the key is absent or unparsable.
func BoolProperty(flat map[string]string, key string, def bool) bool {
	v, ok := flat[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// TxManagerConfig carries the two transaction-factory settings from
// spec.md §6: local's skip-auto-commit-reset-on-close flag and managed's
// close-connection flag.
type TxManagerConfig struct {
	// SkipSetAutoCommitOnClose, for local transactions, suppresses the
	// reset-to-autocommit-true step performed on Close.
	SkipSetAutoCommitOnClose bool
	// CloseConnection, for managed transactions, controls whether Close
	// closes the underlying connection. Defaults to true.
	CloseConnection bool
}

// DefaultTxManagerConfig returns CloseConnection=true, matching the
// managed-factory default in spec.md §6.
func DefaultTxManagerConfig() TxManagerConfig {
	return TxManagerConfig{CloseConnection: true}
}

// LocalTxManagerConfigFromProperties builds a TxManagerConfig for the
// local factory from a flat property map, recognizing
// "skipSetAutoCommitOnClose".
func LocalTxManagerConfigFromProperties(flat map[string]string) TxManagerConfig {
	return TxManagerConfig{
		SkipSetAutoCommitOnClose: BoolProperty(flat, "skipSetAutoCommitOnClose", false),
	}
}

// ManagedTxManagerConfigFromProperties builds a TxManagerConfig for the
// managed factory from a flat property map, recognizing
// "closeConnection" (default true).
func ManagedTxManagerConfigFromProperties(flat map[string]string) TxManagerConfig {
	return TxManagerConfig{
		CloseConnection: BoolProperty(flat, "closeConnection", true),
	}
}
