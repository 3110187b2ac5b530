// Package metrics exposes Prometheus request and business metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gym"

// Recorder owns a registry and the collectors registered on it.
type Recorder struct {
	registry       *prometheus.Registry
	requestCounter *prometheus.CounterVec
	latencyHist    *prometheus.HistogramVec
	eventCounter   *prometheus.CounterVec
}

// New creates a Recorder with its own registry, including Go runtime and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		latencyHist: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		eventCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "business_events_total",
			Help:      "Domain events such as logins and assignments, by outcome.",
		}, []string{"action", "outcome"}),
	}
	reg.MustRegister(
		r.requestCounter,
		r.latencyHist,
		r.eventCounter,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Handler returns the /metrics handler for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency. Requests that matched no
// route are labelled "unmatched" to keep label cardinality bounded.
func (r *Recorder) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		r.requestCounter.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		r.latencyHist.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordEvent counts a business event. Safe to call on a nil Recorder.
func (r *Recorder) RecordEvent(action string, success bool) {
	if r == nil {
		return
	}
	r.eventCounter.WithLabelValues(action, outcomeLabel(success)).Inc()
}

func outcomeLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
