// Package metrics counts solver activity in a Prometheus registry. A
// Collector is passed to the solvers as their observer.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"q.log/pivot/simplex"
)

const namespace = "pivot"

type Collector struct {
	registry *prometheus.Registry

	pivots    *prometheus.CounterVec
	statuses  *prometheus.CounterVec
	cuts      prometheus.Counter
	objective prometheus.Gauge
}

// New returns a Collector with its metrics registered in a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		pivots: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pivots_total",
			Help:      "Number of simplex pivots by view.",
		}, []string{"view"}),
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Number of simplex solves by terminal status.",
		}, []string{"status"}),
		cuts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cuts_total",
			Help:      "Number of Gomory cuts added.",
		}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "objective",
			Help:      "Objective value after the last pivot.",
		}),
	}
	c.registry.MustRegister(c.pivots, c.statuses, c.cuts, c.objective)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) ObservePivot(p simplex.Pivot) {
	view := "primal"
	if p.Dual {
		view = "dual"
	}
	c.pivots.WithLabelValues(view).Inc()
	c.objective.Set(p.Objective)
}

func (c *Collector) ObserveStatus(s simplex.Status) {
	c.statuses.WithLabelValues(s.String()).Inc()
}

func (c *Collector) ObserveCut() {
	c.cuts.Inc()
}

// Pivots returns the pivot counter of a view, "primal" or "dual".
func (c *Collector) Pivots(view string) prometheus.Counter {
	return c.pivots.WithLabelValues(view)
}

func (c *Collector) Statuses(s simplex.Status) prometheus.Counter {
	return c.statuses.WithLabelValues(s.String())
}

func (c *Collector) Cuts() prometheus.Counter {
	return c.cuts
}

func (c *Collector) Objective() prometheus.Gauge {
	return c.objective
}

// Write writes every gathered metric family in the text exposition format.
func (c *Collector) Write(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
