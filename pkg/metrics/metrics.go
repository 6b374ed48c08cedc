// Package metrics counts registry events with prometheus.
package metrics

import (
	"strconv"

	frames "github.com/goliatone/go-frames"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements frames.Logger on top of prometheus collectors. Wire
// it next to a regular logger with frames.MultiLogger.
type Collector struct {
	events       *prometheus.CounterVec
	hooks        *prometheus.CounterVec
	hookDuration *prometheus.HistogramVec
	anomalies    *prometheus.CounterVec
	propagation  *prometheus.CounterVec
}

// NewCollector builds the collectors under namespace, "frames" by default.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "frames"
	}
	return &Collector{
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_total",
				Help:      "Registry events by kind and outcome.",
			},
			[]string{"kind", "ok"},
		),
		hooks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hooks_total",
				Help:      "Demon invocations by kind and outcome.",
			},
			[]string{"demon", "outcome"},
		),
		hookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "body_duration_seconds",
				Help:      "Method, demon and expression body run time in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		anomalies: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "anomalies_total",
				Help:      "Integrity anomalies such as reference loops, by operation.",
			},
			[]string{"op"},
		),
		propagation: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "frameset",
				Name:      "propagations_total",
				Help:      "Frameset operations applied to members, by operation and outcome.",
			},
			[]string{"op", "ok"},
		),
	}
}

// Register adds every collector to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, collector := range c.collectors() {
		if err := reg.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{c.events, c.hooks, c.hookDuration, c.anomalies, c.propagation}
}

// Log implements frames.Logger.
func (c *Collector) Log(event frames.LogEvent) {
	ok := event.OK && event.Err == nil
	c.events.WithLabelValues(string(event.Kind), strconv.FormatBool(ok)).Inc()
	switch event.Kind {
	case frames.EventHook:
		outcome := "ok"
		if event.Err != nil {
			outcome = "error"
		}
		c.hooks.WithLabelValues(event.Demon.String(), outcome).Inc()
		c.hookDuration.WithLabelValues(string(event.Kind)).Observe(event.Duration.Seconds())
	case frames.EventMethod, frames.EventExpression:
		c.hookDuration.WithLabelValues(string(event.Kind)).Observe(event.Duration.Seconds())
	case frames.EventAnomaly:
		c.anomalies.WithLabelValues(event.Op).Inc()
	case frames.EventPropagation:
		c.propagation.WithLabelValues(event.Op, strconv.FormatBool(event.OK)).Inc()
	}
}

// HookCounter returns the counter for demon invocations of kind with outcome
// "ok" or "error".
func (c *Collector) HookCounter(kind frames.DemonKind, outcome string) prometheus.Counter {
	return c.hooks.WithLabelValues(kind.String(), outcome)
}

// AnomalyCounter returns the anomaly counter for op.
func (c *Collector) AnomalyCounter(op string) prometheus.Counter {
	return c.anomalies.WithLabelValues(op)
}

// PropagationCounter returns the member propagation counter for op.
func (c *Collector) PropagationCounter(op string, ok bool) prometheus.Counter {
	return c.propagation.WithLabelValues(op, strconv.FormatBool(ok))
}
