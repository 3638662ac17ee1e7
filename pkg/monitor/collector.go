package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fakenode"

// Collector exports a CallStats as Prometheus metrics. Counts are read at
// scrape time, so the hot path keeps its plain atomic counters.
type Collector struct {
	stats *CallStats

	calls   *prometheus.Desc
	lookups *prometheus.Desc
	ratio   *prometheus.Desc
}

func NewCollector(stats *CallStats) *Collector {
	return &Collector{
		stats: stats,
		calls: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "calls_total"),
			"Protocol calls received, by operation.",
			[]string{"op"}, nil,
		),
		lookups: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "lookups_total"),
			"Point lookups answered from fixtures, by outcome.",
			[]string{"result"}, nil,
		),
		ratio: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "lookup_hit_ratio"),
			"Share of point lookups that found a fixture.",
			nil, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.calls
	ch <- c.lookups
	ch <- c.ratio
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for op, n := range c.stats.Snapshot() {
		ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(n), op)
	}
	hits, misses := c.stats.LookupCounts()
	ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(hits), "hit")
	ch <- prometheus.MustNewConstMetric(c.lookups, prometheus.CounterValue, float64(misses), "miss")
	ch <- prometheus.MustNewConstMetric(c.ratio, prometheus.GaugeValue, c.stats.LookupHitRatio())
}

var _ prometheus.Collector = (*Collector)(nil)
