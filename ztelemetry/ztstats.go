package ztelemetry

import (
	"errors"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/torlangballe/zstats/zlog"
	"github.com/torlangballe/zstats/zmath"
)

// StatsCollector is a prometheus.Collector exporting the running statistics of an Accumulator.
// Observe and scrapes may happen from different goroutines; the accumulator is only touched with mu held.
// Statistics that aren't defined yet for the current count are left out of a scrape.
type StatsCollector struct {
	Level float64
	Dist  zmath.Distribution

	mu          sync.Mutex
	accumulator zmath.Accumulator

	count     *prometheus.Desc
	sum       *prometheus.Desc
	min       *prometheus.Desc
	max       *prometheus.Desc
	mean      *prometheus.Desc
	variance  *prometheus.Desc
	stddev    *prometheus.Desc
	stderr    *prometheus.Desc
	halfWidth *prometheus.Desc
}

func NewStatsCollector(namespace, name string, constLabels prometheus.Labels) *StatsCollector {
	c := &StatsCollector{Level: zmath.DefaultConfidenceLevel}
	c.accumulator.Reset()
	desc := func(stat, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, name, stat), help, labels, constLabels)
	}
	c.count = desc("count", "Number of values observed.")
	c.sum = desc("sum", "Sum of values observed.")
	c.min = desc("min", "Smallest value observed.")
	c.max = desc("max", "Largest value observed.")
	c.mean = desc("mean", "Mean of values observed.")
	c.variance = desc("variance", "Sample variance of values observed.")
	c.stddev = desc("stddev", "Sample standard deviation of values observed.")
	c.stderr = desc("stderr", "Standard error of the mean.")
	c.halfWidth = desc("conf_halfwidth", "Half-width of the confidence interval around the mean.", "level")
	return c
}

func (c *StatsCollector) Observe(value float64) {
	c.mu.Lock()
	c.accumulator.Add(value)
	c.mu.Unlock()
}

func (c *StatsCollector) Reset() {
	c.mu.Lock()
	c.accumulator.Reset()
	c.mu.Unlock()
}

// Snapshot returns a copy of the accumulator, safe to query without locking.
func (c *StatsCollector) Snapshot() zmath.Accumulator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accumulator
}

func (c *StatsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{c.count, c.sum, c.min, c.max, c.mean, c.variance, c.stddev, c.stderr, c.halfWidth} {
		ch <- d
	}
}

func (c *StatsCollector) Collect(ch chan<- prometheus.Metric) {
	a := c.Snapshot()
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}
	gauge(c.count, float64(a.Count()))
	if a.Count() < 1 {
		return
	}
	sum, _ := a.Sum()
	min, _ := a.Min()
	max, _ := a.Max()
	mean, _ := a.Mean()
	gauge(c.sum, sum)
	gauge(c.min, min)
	gauge(c.max, max)
	gauge(c.mean, mean)
	s, err := a.Summarize(c.Level, c.Dist)
	if err != nil {
		if !errors.Is(err, zmath.ErrInsufficientSamples) {
			zlog.OnError(err, "collect statistics")
		}
		return
	}
	gauge(c.variance, s.Variance)
	gauge(c.stddev, s.StdDev)
	gauge(c.stderr, s.StdErr)
	gauge(c.halfWidth, s.HalfWidth, strconv.FormatFloat(s.Level, 'f', -1, 64))
}
