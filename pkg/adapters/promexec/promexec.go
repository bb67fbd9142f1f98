// Package promexec reports loop activity to Prometheus. It wraps any
// Executor with collectors labeled by dimension, so dashboards can tell a
// slow "batch" loop from a slow "frame" loop.
package promexec

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/arnevik/axle"
)

// Metrics holds the collectors an instrumented executor reports into. One
// Metrics value can back any number of executors.
type Metrics struct {
	loops    *prometheus.CounterVec
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics builds the collectors and registers them with reg; nil means
// the default registerer. Registering the same names twice fails, so build
// one Metrics per process or per test registry.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		loops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "axle_loops_total",
				Help: "Total number of vectorized loops run",
			},
			[]string{"dimension"},
		),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "axle_loop_calls_total",
				Help: "Total number of per-index calls",
			},
			[]string{"dimension", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "axle_loop_duration_seconds",
				Help: "Duration of whole loops",
			},
			[]string{"dimension"},
		),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{m.loops, m.calls, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Loops returns the per-dimension loop counter.
func (m *Metrics) Loops() *prometheus.CounterVec { return m.loops }

// Calls returns the per-dimension, per-status call counter.
func (m *Metrics) Calls() *prometheus.CounterVec { return m.calls }

// Duration returns the per-dimension loop duration histogram.
func (m *Metrics) Duration() *prometheus.HistogramVec { return m.duration }

// Wrap returns an executor that counts the loop, times it, counts every
// per-index call with its status, and otherwise behaves exactly like next.
// A nil next wraps the sequential executor.
func (m *Metrics) Wrap(next axle.Executor) axle.Executor {
	if next == nil {
		next = axle.Sequential(nil)
	}
	return func(dim string, fn func(vals []any) (any, error), pieces []any, axes []axle.Axis) (any, error) {
		m.loops.WithLabelValues(dim).Inc()
		timer := prometheus.NewTimer(m.duration.WithLabelValues(dim))
		defer timer.ObserveDuration()

		counted := func(vals []any) (any, error) {
			out, err := fn(vals)
			if err != nil {
				m.calls.WithLabelValues(dim, "error").Inc()
				return nil, err
			}
			m.calls.WithLabelValues(dim, "ok").Inc()
			return out, nil
		}
		return next(dim, counted, pieces, axes)
	}
}
