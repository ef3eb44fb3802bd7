package metric

import "github.com/prometheus/client_golang/prometheus"

// KeyspaceStats is the read-only view of a store the collector samples.
type KeyspaceStats interface {
	Len() int
	Expired() uint64
}

// KeyspaceCollector reports the key count and lazy expirations of a store
// at scrape time.
type KeyspaceCollector struct {
	stats   KeyspaceStats
	keys    *prometheus.Desc
	expired *prometheus.Desc
}

// NewKeyspaceCollector creates a collector over stats.
func NewKeyspaceCollector(stats KeyspaceStats) *KeyspaceCollector {
	return &KeyspaceCollector{
		stats: stats,
		keys: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys"),
			"Entries held in the store, including expired entries not yet read.",
			nil, nil,
		),
		expired: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "keys_expired_total"),
			"Entries removed on access after their expiry.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *KeyspaceCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.keys
	ch <- c.expired
}

// Collect implements prometheus.Collector.
func (c *KeyspaceCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.keys, prometheus.GaugeValue, float64(c.stats.Len()))
	ch <- prometheus.MustNewConstMetric(c.expired, prometheus.CounterValue, float64(c.stats.Expired()))
}
