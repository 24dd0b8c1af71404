// Package metrics exposes the survey funnel and HTTP counters on a private registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mattressfit"

// Collector holds every metric the server records.
type Collector struct {
	registry *prometheus.Registry

	SessionsOpened      prometheus.Counter
	SessionTransitions  *prometheus.CounterVec
	Submissions         *prometheus.CounterVec
	NotifyDuration      prometheus.Histogram
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates a Collector with its own Prometheus registry.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		SessionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "survey_sessions_opened_total",
			Help:      "Survey dialogs opened",
		}),
		SessionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "survey_phase_transitions_total",
			Help:      "Survey sessions entering a phase",
		}, []string{"phase"}),
		Submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lead_submissions_total",
			Help:      "Lead submissions by channel and outcome",
		}, []string{"channel", "status"}),
		NotifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lead_notify_duration_seconds",
			Help:      "Time spent delivering a lead notification, retries included",
			Buckets:   prometheus.DefBuckets,
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
	reg.MustRegister(
		c.SessionsOpened,
		c.SessionTransitions,
		c.Submissions,
		c.NotifyDuration,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the private registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) SessionOpened() { c.SessionsOpened.Inc() }

func (c *Collector) PhaseEntered(phase string) { c.SessionTransitions.WithLabelValues(phase).Inc() }

// LeadSubmitted counts one submission attempt. channel is session or direct.
func (c *Collector) LeadSubmitted(channel string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	c.Submissions.WithLabelValues(channel, status).Inc()
}

func (c *Collector) ObserveNotify(d time.Duration) { c.NotifyDuration.Observe(d.Seconds()) }

// ObserveHTTP records one finished request. path should be the route template.
func (c *Collector) ObserveHTTP(method, path string, status int, d time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
