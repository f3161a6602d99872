// Package metrics exports navigator lifecycle events as Prometheus metrics.
//
//	c := metrics.NewCollector("myapp")
//	unsubscribe := c.Attach(nav)
//	defer unsubscribe()
//
//	http.Handle("/metrics", c.Handler())
package metrics

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/BrandonKowalski/screenstack/pkg/screenstack"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector turns lifecycle events into metrics in its own registry.
type Collector struct {
	registry *prometheus.Registry

	events     *prometheus.CounterVec
	active     *prometheus.GaugeVec
	loaded     *prometheus.GaugeVec
	transition *prometheus.HistogramVec
	managers   prometheus.Gauge
	backNav    *prometheus.CounterVec

	mu        sync.Mutex
	shown     map[*screenstack.Instance]string
	announced map[int]bool
}

// NewCollector creates a collector. The namespace defaults to "screenstack".
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "screenstack"
	}

	c := &Collector{
		registry:  prometheus.NewRegistry(),
		shown:     make(map[*screenstack.Instance]string),
		announced: make(map[int]bool),
	}

	c.events = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "screen",
			Name:      "events_total",
			Help:      "Lifecycle events by kind and screen type",
		},
		[]string{"event", "screen"},
	)

	c.active = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "screen",
			Name:      "active",
			Help:      "Screens currently shown, per manager",
		},
		[]string{"manager"},
	)

	c.loaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "screen",
			Name:      "instances",
			Help:      "Live screen instances (active or pooled), per screen type",
		},
		[]string{"screen"},
	)

	c.transition = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "screen",
			Name:      "transition_duration_seconds",
			Help:      "Time from a show or hide request to its completion",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"event", "screen"},
	)

	c.managers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "manager",
			Name:      "registered",
			Help:      "Registered managers",
		},
	)

	c.backNav = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "back_total",
			Help:      "Back navigations, per manager",
		},
		[]string{"manager"},
	)

	c.registry.MustRegister(c.events, c.active, c.loaded, c.transition, c.managers, c.backNav)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Attach subscribes the collector to a navigator's events.
func (c *Collector) Attach(nav *screenstack.Navigator) func() {
	return nav.Subscribe(c.Observe)
}

// Observe records one lifecycle event.
func (c *Collector) Observe(ev screenstack.Event) {
	screen := string(ev.Screen)
	manager := strconv.Itoa(ev.Manager)

	switch ev.Kind {
	case screenstack.EventLoaded:
		c.loaded.WithLabelValues(screen).Inc()
	case screenstack.EventUnloaded:
		c.loaded.WithLabelValues(screen).Dec()
	case screenstack.EventShown:
		c.mu.Lock()
		if _, ok := c.shown[ev.Instance]; !ok {
			c.shown[ev.Instance] = manager
			c.active.WithLabelValues(manager).Inc()
		}
		c.mu.Unlock()
		c.transition.WithLabelValues(ev.Kind.String(), screen).Observe(ev.Duration.Seconds())
	case screenstack.EventHidden:
		// A screen hidden before its show completed was never counted.
		c.mu.Lock()
		if m, ok := c.shown[ev.Instance]; ok {
			delete(c.shown, ev.Instance)
			c.active.WithLabelValues(m).Dec()
		}
		c.mu.Unlock()
		c.transition.WithLabelValues(ev.Kind.String(), screen).Observe(ev.Duration.Seconds())
	case screenstack.EventManagerRegistered:
		c.mu.Lock()
		if !c.announced[ev.Manager] {
			c.announced[ev.Manager] = true
			c.managers.Inc()
		}
		c.mu.Unlock()
	case screenstack.EventManagerUnregistered:
		c.mu.Lock()
		if c.announced[ev.Manager] {
			delete(c.announced, ev.Manager)
			c.managers.Dec()
		}
		c.mu.Unlock()
	case screenstack.EventBackNavigation:
		c.backNav.WithLabelValues(manager).Inc()
	}

	if screen != "" {
		c.events.WithLabelValues(ev.Kind.String(), screen).Inc()
	}
}
