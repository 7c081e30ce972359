package clients

import "github.com/prometheus/client_golang/prometheus"

// LimiterCollector exposes RateLimiter statistics to Prometheus. Values are
// read from the limiter at scrape time.
type LimiterCollector struct {
	limiter *RateLimiter

	granted   *prometheus.Desc
	delayed   *prometheus.Desc
	cancelled *prometheus.Desc
	waitTotal *prometheus.Desc
	budget    *prometheus.Desc
}

var _ prometheus.Collector = (*LimiterCollector)(nil)

// NewLimiterCollector creates a collector for l. Register it on the registry
// served at /-/metrics.
func NewLimiterCollector(l *RateLimiter) *LimiterCollector {
	const ns, sub = "lexoffice", "ratelimit"

	return &LimiterCollector{
		limiter: l,
		granted: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "granted_total"),
			"Requests let through by the rate limiter.", nil, nil),
		delayed: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "delayed_total"),
			"Requests that had to wait for a token.", nil, nil),
		cancelled: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "cancelled_total"),
			"Waits abandoned because the caller's context ended.", nil, nil),
		waitTotal: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "wait_seconds_total"),
			"Cumulative time spent waiting for tokens.", nil, nil),
		budget: prometheus.NewDesc(
			prometheus.BuildFQName(ns, sub, "requests_per_second"),
			"Configured request budget.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *LimiterCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.granted
	ch <- c.delayed
	ch <- c.cancelled
	ch <- c.waitTotal
	ch <- c.budget
}

// Collect implements prometheus.Collector.
func (c *LimiterCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.limiter.Stats()
	cfg := c.limiter.Config()

	ch <- prometheus.MustNewConstMetric(c.granted, prometheus.CounterValue, float64(stats.Granted))
	ch <- prometheus.MustNewConstMetric(c.delayed, prometheus.CounterValue, float64(stats.Delayed))
	ch <- prometheus.MustNewConstMetric(c.cancelled, prometheus.CounterValue, float64(stats.Cancelled))
	ch <- prometheus.MustNewConstMetric(c.waitTotal, prometheus.CounterValue, stats.TotalWait.Seconds())
	ch <- prometheus.MustNewConstMetric(c.budget, prometheus.GaugeValue, float64(cfg.Requests)/cfg.Window.Seconds())
}
