package pool

import (
	"fmt"
	"time"
)

// Stats is an immutable snapshot of the pool's counters, taken under the
// pool's mutex by DataSource.Snapshot. Returning a snapshot rather than a
// live pointer is the redesign spec.md §9 calls out as preferable: the
// source's own status report is not guaranteed consistent because
// callers can concurrently reconfigure the pool while it is being read.
type Stats struct {
	RequestCount                   int64
	AccumulatedRequestTime         time.Duration
	AccumulatedCheckoutTime        time.Duration
	OverdueCount                   int64
	AccumulatedOverdueCheckoutTime time.Duration
	AccumulatedWaitTime            time.Duration
	HadToWaitCount                 int64
	BadConnectionCount             int64

	IdleCount   int
	ActiveCount int
}

// AverageRequestTime is AccumulatedRequestTime / RequestCount, or zero
// when RequestCount is zero.
func (s Stats) AverageRequestTime() time.Duration {
	if s.RequestCount == 0 {
		return 0
	}
	return s.AccumulatedRequestTime / time.Duration(s.RequestCount)
}

// AverageCheckoutTime is AccumulatedCheckoutTime / RequestCount, or zero
// when RequestCount is zero.
func (s Stats) AverageCheckoutTime() time.Duration {
	if s.RequestCount == 0 {
		return 0
	}
	return s.AccumulatedCheckoutTime / time.Duration(s.RequestCount)
}

// AverageOverdueCheckoutTime is AccumulatedOverdueCheckoutTime /
// OverdueCount, or zero when OverdueCount is zero.
func (s Stats) AverageOverdueCheckoutTime() time.Duration {
	if s.OverdueCount == 0 {
		return 0
	}
	return s.AccumulatedOverdueCheckoutTime / time.Duration(s.OverdueCount)
}

// AverageWaitTime is AccumulatedWaitTime / HadToWaitCount, or zero when
// HadToWaitCount is zero.
func (s Stats) AverageWaitTime() time.Duration {
	if s.HadToWaitCount == 0 {
		return 0
	}
	return s.AccumulatedWaitTime / time.Duration(s.HadToWaitCount)
}

// String renders a fixed-column operator status report, matching the
// "toString formatted status report" public surface named in spec.md §6.
func (s Stats) String() string {
	return fmt.Sprintf(
		"pool status:\n"+
			"  active connections:        %d\n"+
			"  idle connections:          %d\n"+
			"  request count:             %d\n"+
			"  average request time:      %s\n"+
			"  average checkout time:     %s\n"+
			"  overdue count:             %d\n"+
			"  average overdue checkout:  %s\n"+
			"  had to wait count:         %d\n"+
			"  average wait time:         %s\n"+
			"  bad connection count:      %d\n",
		s.ActiveCount, s.IdleCount,
		s.RequestCount, s.AverageRequestTime(),
		s.AverageCheckoutTime(),
		s.OverdueCount, s.AverageOverdueCheckoutTime(),
		s.HadToWaitCount, s.AverageWaitTime(),
		s.BadConnectionCount,
	)
}
