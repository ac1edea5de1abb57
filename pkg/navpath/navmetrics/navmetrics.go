// Package navmetrics exports navigation path activity as Prometheus metrics.
package navmetrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/BrandonKowalski/navpath/pkg/navpath"
)

// Collector observes one or more paths and records their activity.
// Subscribe it with Path.Subscribe and install Reject with
// navpath.WithRejectHook.
type Collector struct {
	depth          prometheus.Gauge
	sheetPresented prometheus.Gauge
	mutations      *prometheus.CounterVec
	rejections     *prometheus.CounterVec
}

// New creates a collector. namespace prefixes every metric name and may be
// empty.
func New(namespace string) *Collector {
	return &Collector{
		depth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "navpath_depth",
			Help:      "Number of entries on the path after the last mutation",
		}),
		sheetPresented: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "navpath_sheet_presented",
			Help:      "1 while a modal sheet is presented",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navpath_mutations_total",
			Help:      "Total number of applied path mutations",
		}, []string{"op"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "navpath_rejections_total",
			Help:      "Total number of rejected path mutations",
		}, []string{"op", "reason"}),
	}
}

// Register adds every metric to reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{c.depth, c.sheetPresented, c.mutations, c.rejections} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// PathChanged implements navpath.Observer.
func (c *Collector) PathChanged(change navpath.Change) {
	c.mutations.WithLabelValues(string(change.Op)).Inc()
	c.depth.Set(float64(change.Depth))
	if change.SheetPresented() {
		c.sheetPresented.Set(1)
	} else {
		c.sheetPresented.Set(0)
	}
}

// Reject has the navpath.RejectHook signature.
func (c *Collector) Reject(op navpath.Op, err error) {
	c.rejections.WithLabelValues(string(op), Reason(err)).Inc()
}

// Reason maps a mutation error to a short metric label.
func Reason(err error) string {
	switch {
	case errors.Is(err, navpath.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, navpath.ErrEmptyStack):
		return "empty_stack"
	case errors.Is(err, navpath.ErrReentrantMutation):
		return "reentrant"
	default:
		return "other"
	}
}
