package store

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the lookup library.
type Metrics struct {
	// LookupsTotal counts gateway operations by outcome
	// (found, not_found, error).
	LookupsTotal *prometheus.CounterVec

	// QueryDuration observes wall time per gateway operation.
	QueryDuration *prometheus.HistogramVec

	// CredentialChecksTotal counts password verifications by result
	// (valid, invalid, malformed). Incremented by the federation layer.
	CredentialChecksTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates and registers the lookup metrics on the given
// registry. Attach the result to one Store via WithMetrics; the store then
// registers its connection pool collector on the same registry.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userfed_lookups_total",
				Help: "Total number of directory lookup operations",
			},
			[]string{"operation", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "userfed_query_duration_seconds",
				Help:    "Directory query duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		CredentialChecksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "userfed_credential_checks_total",
				Help: "Total number of password verifications",
			},
			[]string{"result"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.LookupsTotal,
		m.QueryDuration,
		m.CredentialChecksTotal,
	)

	return m
}

// observePool registers a pool statistics collector for the store's handle.
func (m *Metrics) observePool(db *sql.DB) {
	if m.registry == nil {
		return
	}
	m.registry.MustRegister(newPoolStatsCollector(db.Stats))
}

// poolStatsCollector exports database/sql pool statistics at scrape time.
type poolStatsCollector struct {
	stats func() sql.DBStats

	open         *prometheus.Desc
	idle         *prometheus.Desc
	active       *prometheus.Desc
	waitCount    *prometheus.Desc
	waitDuration *prometheus.Desc
}

func newPoolStatsCollector(stats func() sql.DBStats) *poolStatsCollector {
	return &poolStatsCollector{
		stats: stats,
		open: prometheus.NewDesc(
			"userfed_db_connections_open",
			"Number of established database connections",
			nil, nil,
		),
		idle: prometheus.NewDesc(
			"userfed_db_connections_idle",
			"Number of idle database connections",
			nil, nil,
		),
		active: prometheus.NewDesc(
			"userfed_db_connections_active",
			"Number of database connections currently in use",
			nil, nil,
		),
		waitCount: prometheus.NewDesc(
			"userfed_db_connections_wait_count",
			"Total number of connections waited for",
			nil, nil,
		),
		waitDuration: prometheus.NewDesc(
			"userfed_db_connections_wait_duration_seconds",
			"Total time spent waiting for connections",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *poolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.open
	ch <- c.idle
	ch <- c.active
	ch <- c.waitCount
	ch <- c.waitDuration
}

// Collect implements prometheus.Collector.
func (c *poolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.stats()
	ch <- prometheus.MustNewConstMetric(c.open, prometheus.GaugeValue, float64(s.OpenConnections))
	ch <- prometheus.MustNewConstMetric(c.idle, prometheus.GaugeValue, float64(s.Idle))
	ch <- prometheus.MustNewConstMetric(c.active, prometheus.GaugeValue, float64(s.InUse))
	ch <- prometheus.MustNewConstMetric(c.waitCount, prometheus.CounterValue, float64(s.WaitCount))
	ch <- prometheus.MustNewConstMetric(c.waitDuration, prometheus.CounterValue, s.WaitDuration.Seconds())
}
