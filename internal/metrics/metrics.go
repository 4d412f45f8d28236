// Package metrics exposes Prometheus instrumentation for upstream API calls
// and snapshot writes.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services depend on, so tests can pass Nop.
type Recorder interface {
	ObserveUpstream(op string, err error, elapsed time.Duration)
	AddSnapshots(n int)
}

// Collector records metrics into a Prometheus registry
type Collector struct {
	upstreamCalls   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	snapshots       prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nichefinder_upstream_calls_total",
			Help: "Calls to external APIs by operation and outcome.",
		}, []string{"op", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nichefinder_upstream_latency_seconds",
			Help:    "Latency of external API calls.",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nichefinder_snapshots_appended_total",
			Help: "Channel snapshot rows appended to the snapshot store.",
		}),
	}

	reg.MustRegister(c.upstreamCalls, c.upstreamLatency, c.snapshots)
	return c
}

// ObserveUpstream records one external call
func (c *Collector) ObserveUpstream(op string, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	c.upstreamCalls.WithLabelValues(op, outcome).Inc()
	c.upstreamLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// AddSnapshots counts appended snapshot rows
func (c *Collector) AddSnapshots(n int) {
	c.snapshots.Add(float64(n))
}

// Handler returns the scrape endpoint for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type nop struct{}

func (nop) ObserveUpstream(string, error, time.Duration) {}
func (nop) AddSnapshots(int)                             {}

// Nop discards everything
var Nop Recorder = nop{}
