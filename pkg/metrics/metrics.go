// Package metrics exports host activity as Prometheus metrics.
//
// A Collector is wired into a registry through its hooks:
//
//	c := metrics.NewCollector()
//	prometheus.MustRegister(c)
//	registry := core.NewRegistry(core.WithHooks(c.Hooks()))
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/funlit/pkg/core"
)

// Collector counts update requests, render passes and init outcomes per tag.
type Collector struct {
	updateRequests   *prometheus.CounterVec
	coalesced        *prometheus.CounterVec
	renders          *prometheus.CounterVec
	renderErrors     *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	initFailures     *prometheus.CounterVec
	initializedHosts *prometheus.GaugeVec
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates an unregistered collector.
func NewCollector() *Collector {
	return &Collector{
		updateRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funlit_update_requests_total",
				Help: "Total number of update requests, including coalesced ones.",
			},
			[]string{"tag"},
		),
		coalesced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funlit_update_requests_coalesced_total",
				Help: "Update requests that joined an already pending render pass.",
			},
			[]string{"tag"},
		),
		renders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funlit_render_passes_total",
				Help: "Total number of completed render passes.",
			},
			[]string{"tag"},
		),
		renderErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funlit_render_errors_total",
				Help: "Render passes that ended with an error.",
			},
			[]string{"tag"},
		),
		renderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "funlit_render_duration_seconds",
				Help:    "Duration of render passes in seconds.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"tag"},
		),
		initFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funlit_init_failures_total",
				Help: "Init routines that returned an error or panicked.",
			},
			[]string{"tag"},
		),
		initializedHosts: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "funlit_initialized_hosts",
				Help: "Number of hosts whose init routine has completed.",
			},
			[]string{"tag"},
		),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.updateRequests,
		c.coalesced,
		c.renders,
		c.renderErrors,
		c.renderDuration,
		c.initFailures,
		c.initializedHosts,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

// Hooks returns registry hooks that feed the collector.
func (c *Collector) Hooks() core.Hooks {
	return core.Hooks{
		OnInit:            c.observeInit,
		OnUpdateRequested: c.observeRequest,
		OnRender:          c.observeRender,
	}
}

func (c *Collector) observeInit(h *core.Host, err error) {
	if err != nil {
		c.initFailures.WithLabelValues(h.Tag()).Inc()
		return
	}
	c.initializedHosts.WithLabelValues(h.Tag()).Inc()
}

func (c *Collector) observeRequest(h *core.Host, coalesced bool) {
	c.updateRequests.WithLabelValues(h.Tag()).Inc()
	if coalesced {
		c.coalesced.WithLabelValues(h.Tag()).Inc()
	}
}

func (c *Collector) observeRender(h *core.Host, elapsed time.Duration, err error) {
	tag := h.Tag()
	c.renders.WithLabelValues(tag).Inc()
	c.renderDuration.WithLabelValues(tag).Observe(elapsed.Seconds())
	if err != nil {
		c.renderErrors.WithLabelValues(tag).Inc()
	}
}
