// Package metrics exports pool statistics to Prometheus. It is the one
// observability dependency this module carries beyond logging: the pool
// engine itself stays free of any metrics-library import and only
// produces immutable pool.Stats snapshots, which Collector.Observe turns
// into gauge/counter/histogram updates on whatever cadence the caller
// chooses (typically a ticker).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"pooldb/pool"
)

// Collector wraps a prometheus.Registerer with the pool's counters and
// gauges, rescoped from the teacher's per-database-vendor ORM metrics
// surface down to exactly what DataSource.Snapshot reports.
type Collector struct {
	idleConnections   prometheus.Gauge
	activeConnections prometheus.Gauge

	requestsTotal       prometheus.Counter
	overdueTotal        prometheus.Counter
	badConnectionsTotal prometheus.Counter
	hadToWaitTotal      prometheus.Counter

	checkoutDuration prometheus.Histogram

	lastRequestCount       int64
	lastOverdueCount       int64
	lastBadConnectionCount int64
	lastHadToWaitCount     int64
}

// NewCollector registers the pool metrics under namespace with reg and
// returns a Collector ready to observe snapshots.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		idleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "pooldb_idle_connections",
			Help: "Number of pooled connections currently idle.",
		}),
		activeConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "pooldb_active_connections",
			Help: "Number of pooled connections currently lent out.",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pooldb_requests_total",
			Help: "Total number of successful borrow calls.",
		}),
		overdueTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pooldb_overdue_total",
			Help: "Total number of overdue-checkout reclaims.",
		}),
		badConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pooldb_bad_connections_total",
			Help: "Total number of connections that failed validation.",
		}),
		hadToWaitTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "pooldb_had_to_wait_total",
			Help: "Total number of borrow calls that had to wait.",
		}),
		checkoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "pooldb_checkout_duration_seconds",
			Help:    "Average checkout duration observed at each snapshot.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		c.idleConnections, c.activeConnections,
		c.requestsTotal, c.overdueTotal, c.badConnectionsTotal, c.hadToWaitTotal,
		c.checkoutDuration,
	)
	return c
}

// Observe updates every metric from a pool.Stats snapshot. Counters only
// ever increase, so Observe adds the delta since the previous snapshot
// rather than re-setting an absolute value.
func (c *Collector) Observe(s pool.Stats) {
	c.idleConnections.Set(float64(s.IdleCount))
	c.activeConnections.Set(float64(s.ActiveCount))

	c.requestsTotal.Add(float64(s.RequestCount - c.lastRequestCount))
	c.overdueTotal.Add(float64(int64(s.OverdueCount) - c.lastOverdueCount))
	c.badConnectionsTotal.Add(float64(s.BadConnectionCount - c.lastBadConnectionCount))
	c.hadToWaitTotal.Add(float64(s.HadToWaitCount - c.lastHadToWaitCount))

	c.lastRequestCount = s.RequestCount
	c.lastOverdueCount = int64(s.OverdueCount)
	c.lastBadConnectionCount = s.BadConnectionCount
	c.lastHadToWaitCount = s.HadToWaitCount

	if s.RequestCount > 0 {
		c.checkoutDuration.Observe(s.AverageCheckoutTime().Seconds())
	}
}

// Run observes snapshot() on every tick until stop is closed. Callers
// typically pass ds.Snapshot (a *pool.DataSource method value).
func (c *Collector) Run(stop <-chan struct{}, interval time.Duration, snapshot func() pool.Stats) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.Observe(snapshot())
		}
	}
}
