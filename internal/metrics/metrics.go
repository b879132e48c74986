// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests, shard queries, and
// connection pool health.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "extensionto_cms"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Shard metrics - track per-shard query volume and scatter-gather latency
	ShardQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shard",
			Name:      "queries_total",
			Help:      "Total number of shard queries by shard index, operation, and result",
		},
		[]string{"shard", "op", "result"},
	)

	BroadcastDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "shard",
			Name:      "broadcast_duration_seconds",
			Help:      "Duration of scatter-gather broadcasts across all shards",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"op", "result"},
	)

	LinkRewritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "linker",
			Name:      "rewrites_total",
			Help:      "Total number of internal link rewrite passes by result",
		},
		[]string{"result"},
	)

	// Database metrics - connection pool stats per shard
	DBConnectionPoolSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "pool_connections",
			Help:      "Database connection pool stats per shard",
		},
		[]string{"shard", "state"},
	)
)

// RecordShardQuery increments the per-shard query counter.
func RecordShardQuery(shard int, op, result string) {
	ShardQueriesTotal.WithLabelValues(strconv.Itoa(shard), op, result).Inc()
}

// ObserveBroadcast records one scatter-gather round trip.
func ObserveBroadcast(op, result string, d time.Duration) {
	BroadcastDuration.WithLabelValues(op, result).Observe(d.Seconds())
}

// RecordLinkRewrite counts one rewrite pass.
func RecordLinkRewrite(result string) {
	LinkRewritesTotal.WithLabelValues(result).Inc()
}

// Timer is a helper for measuring operation duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer starting now
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer was created
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time since the timer was created
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(time.Since(t.start).Seconds())
}

// PoolStats is an interface for getting pool statistics
// This allows for easier testing by mocking the pool stats
type PoolStats interface {
	TotalConns() int32
	IdleConns() int32
	AcquiredConns() int32
}

// PoolStatsProvider is an interface for providing pool stats
type PoolStatsProvider interface {
	Stat() PoolStats
}

// pgxPoolAdapter adapts pgxpool.Pool to PoolStatsProvider
type pgxPoolAdapter struct {
	pool *pgxpool.Pool
}

func (a *pgxPoolAdapter) Stat() PoolStats {
	return a.pool.Stat()
}

// PoolStatsCollector collects connection pool statistics for every shard
// periodically.
type PoolStatsCollector struct {
	providers []PoolStatsProvider
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// NewPoolStatsCollector creates a collector over all shard pools.
func NewPoolStatsCollector(pools []*pgxpool.Pool) *PoolStatsCollector {
	providers := make([]PoolStatsProvider, len(pools))
	for i, pool := range pools {
		providers[i] = &pgxPoolAdapter{pool: pool}
	}
	return &PoolStatsCollector{
		providers: providers,
		stopChan:  make(chan struct{}),
	}
}

// NewPoolStatsCollectorWithProviders creates a collector with custom providers (for testing)
func NewPoolStatsCollectorWithProviders(providers []PoolStatsProvider) *PoolStatsCollector {
	return &PoolStatsCollector{
		providers: providers,
		stopChan:  make(chan struct{}),
	}
}

// Start begins collecting pool stats every interval
func (c *PoolStatsCollector) Start(interval time.Duration) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopChan:
				return
			}
		}
	}()
}

func (c *PoolStatsCollector) collect() {
	for i, provider := range c.providers {
		shard := strconv.Itoa(i)
		stats := provider.Stat()
		DBConnectionPoolSize.WithLabelValues(shard, "total").Set(float64(stats.TotalConns()))
		DBConnectionPoolSize.WithLabelValues(shard, "idle").Set(float64(stats.IdleConns()))
		DBConnectionPoolSize.WithLabelValues(shard, "acquired").Set(float64(stats.AcquiredConns()))
	}
}

// Stop stops the collector and waits for the goroutine to finish
func (c *PoolStatsCollector) Stop() {
	close(c.stopChan)
	c.wg.Wait()
}
