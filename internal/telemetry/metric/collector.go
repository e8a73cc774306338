package metric

import "github.com/prometheus/client_golang/prometheus"

// TableSource reports the live session count. The session table
// satisfies it.
type TableSource interface {
	Len() int
}

// TableCollector collects gauge metrics straight from the session
// table on scrape, so the active count never drifts from the table's
// own bookkeeping.
type TableCollector struct {
	source TableSource

	activeDesc *prometheus.Desc
}

var _ prometheus.Collector = (*TableCollector)(nil)

// NewTableCollector creates a collector over the given table.
func NewTableCollector(source TableSource) *TableCollector {
	return &TableCollector{
		source: source,
		activeDesc: prometheus.NewDesc(
			"sessgate_sessions_active",
			"Number of currently live sessions.",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *TableCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.activeDesc
}

// Collect implements prometheus.Collector.
func (c *TableCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(
		c.activeDesc,
		prometheus.GaugeValue,
		float64(c.source.Len()),
	)
}
