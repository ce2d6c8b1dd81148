package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zeusync/autolink/internal/core/events/bus"
)

// Collector bundles the Prometheus metrics produced by auto-link passes. A
// nil *Collector is valid and records nothing.
type Collector struct {
	gatherer prometheus.Gatherer

	Links      *prometheus.CounterVec
	Probes     *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Skipped    prometheus.Counter
	Passes     prometheus.Histogram

	BusEvents     *prometheus.CounterVec
	BusFailures   *prometheus.CounterVec
	BusDeliveries prometheus.Histogram
}

var _ bus.EventBusObserver = (*Collector)(nil)

// NewCollector registers the auto-link metrics against reg, defaulting to
// the global registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	links, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_links_total",
		Help: "Connector links established, labeled by connector family.",
	}, []string{"family"}), "autolink_links_total")
	if err != nil {
		return nil, err
	}

	probes, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_probes_total",
		Help: "Spatial probes issued for open connectors, labeled by connector family.",
	}, []string{"family"}), "autolink_probes_total")
	if err != nil {
		return nil, err
	}

	rejections, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_candidates_rejected_total",
		Help: "Candidate connectors discarded by the scorer, labeled by family and reason.",
	}, []string{"family", "reason"}), "autolink_candidates_rejected_total")
	if err != nil {
		return nil, err
	}

	skipped, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "autolink_skipped_total",
		Help: "Buildables rejected by the eligibility gate without scanning.",
	}), "autolink_skipped_total")
	if err != nil {
		return nil, err
	}

	passes, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "autolink_pass_duration_seconds",
		Help:    "Wall time of one auto-link pass over a buildable.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}), "autolink_pass_duration_seconds")
	if err != nil {
		return nil, err
	}

	busEvents, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_bus_events_total",
		Help: "Events published on the construction bus, labeled by event type.",
	}, []string{"event"}), "autolink_bus_events_total")
	if err != nil {
		return nil, err
	}

	busFailures, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "autolink_bus_delivery_failures_total",
		Help: "Event deliveries where at least one handler returned an error.",
	}, []string{"event"}), "autolink_bus_delivery_failures_total")
	if err != nil {
		return nil, err
	}

	busDeliveries, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "autolink_bus_delivery_seconds",
		Help:    "Wall time to run every handler of one published event.",
		Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1},
	}), "autolink_bus_delivery_seconds")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:      gatherer,
		Links:         links,
		Probes:        probes,
		Rejections:    rejections,
		Skipped:       skipped,
		Passes:        passes,
		BusEvents:     busEvents,
		BusFailures:   busFailures,
		BusDeliveries: busDeliveries,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := prometheus.DefaultGatherer
	if c != nil && c.gatherer != nil {
		gatherer = c.gatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (c *Collector) Linked(family string) {
	if c == nil {
		return
	}
	c.Links.WithLabelValues(family).Inc()
}

func (c *Collector) Probed(family string) {
	if c == nil {
		return
	}
	c.Probes.WithLabelValues(family).Inc()
}

func (c *Collector) Rejected(family, reason string) {
	if c == nil {
		return
	}
	c.Rejections.WithLabelValues(family, reason).Inc()
}

func (c *Collector) SkippedBuildable() {
	if c == nil {
		return
	}
	c.Skipped.Inc()
}

func (c *Collector) ObservePass(d time.Duration) {
	if c == nil {
		return
	}
	c.Passes.Observe(d.Seconds())
}

// OnPublish counts an event as it enters the bus.
func (c *Collector) OnPublish(eventType string, _ bus.Event) {
	if c == nil {
		return
	}
	c.BusEvents.WithLabelValues(eventType).Inc()
}

// OnDelivered records how long the handlers of one event took and whether
// any of them failed.
func (c *Collector) OnDelivered(eventType string, _ int, err error, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.BusDeliveries.Observe(elapsed.Seconds())
	if err != nil {
		c.BusFailures.WithLabelValues(eventType).Inc()
	}
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
