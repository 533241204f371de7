// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of a trace as recorded in the traces counter.
const (
	outcomeComplete   = "complete"
	outcomePartial    = "partial"
	outcomeFailed     = "failed"
	outcomeSuperseded = "superseded"
)

// metrics defines the metric collectors of the tracer
type metrics struct {
	traces   *prometheus.CounterVec
	duration prometheus.Histogram
	hops     prometheus.Counter
	hopCount *prometheus.GaugeVec
}

// newMetrics initializes metric collectors of the tracer
func newMetrics() metrics {
	return metrics{
		traces: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoptrace_traces_total",
				Help: "Total number of traces by outcome.",
			},
			[]string{"outcome"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hoptrace_trace_duration_seconds",
				Help:    "Duration of finished traces in seconds.",
				Buckets: []float64{1, 2.5, 5, 10, 20, 40, 80, 160},
			},
		),
		hops: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "hoptrace_hops_total",
				Help: "Total number of hops delivered to consumers.",
			},
		),
		hopCount: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hoptrace_last_hop_count",
				Help: "Number of hops of the last finished trace to the target.",
			},
			[]string{"target"},
		),
	}
}

// List returns all metric collectors
func (m *metrics) List() []prometheus.Collector {
	return []prometheus.Collector{
		m.traces,
		m.duration,
		m.hops,
		m.hopCount,
	}
}

// hop records a delivered hop
func (m *metrics) hop() {
	m.hops.Inc()
}

// finished records the result of a trace that was delivered to its consumer
func (m *metrics) finished(res Result, d time.Duration) {
	outcome := outcomeFailed
	switch {
	case res.Complete && res.Error == "":
		outcome = outcomeComplete
	case res.Complete:
		outcome = outcomePartial
	}
	m.traces.WithLabelValues(outcome).Inc()
	m.duration.Observe(d.Seconds())
	m.hopCount.WithLabelValues(res.Target).Set(float64(len(res.Hops)))
}

// superseded records a trace that was cancelled before its result was delivered
func (m *metrics) superseded() {
	m.traces.WithLabelValues(outcomeSuperseded).Inc()
}
