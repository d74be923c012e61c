// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the server's Prometheus metrics
type Collector struct {
	httpRequests         *prometheus.CounterVec
	httpLatency          *prometheus.HistogramVec
	notificationsSent    *prometheus.CounterVec
	notificationsDropped prometheus.Counter
	notificationsFailed  prometheus.Counter
	notifyQueueDepth     prometheus.Gauge
	rateLimited          prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nanosocial_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nanosocial_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nanosocial_notifications_created_total",
			Help: "Notifications persisted, by type",
		}, []string{"type"}),
		notificationsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nanosocial_notifications_dropped_total",
			Help: "Notifications dropped because the dispatch queue was full or closed",
		}),
		notificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nanosocial_notifications_failed_total",
			Help: "Notifications that could not be persisted after retries",
		}),
		notifyQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nanosocial_notification_queue_depth",
			Help: "Notifications waiting in the dispatch queue",
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "nanosocial_rate_limited_total",
			Help: "Requests rejected by the rate limiter",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.notificationsSent,
		c.notificationsDropped,
		c.notificationsFailed,
		c.notifyQueueDepth,
		c.rateLimited,
	)
	return c
}

// RecordHTTPRequest records one handled request
func (c *Collector) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordNotificationCreated counts a persisted notification
func (c *Collector) RecordNotificationCreated(kind string) {
	c.notificationsSent.WithLabelValues(kind).Inc()
}

// RecordNotificationDropped counts a notification that never reached a worker
func (c *Collector) RecordNotificationDropped() {
	c.notificationsDropped.Inc()
}

// RecordNotificationFailed counts a notification whose insert kept failing
func (c *Collector) RecordNotificationFailed() {
	c.notificationsFailed.Inc()
}

// SetNotificationQueueDepth reports the dispatch backlog
func (c *Collector) SetNotificationQueueDepth(n int) {
	c.notifyQueueDepth.Set(float64(n))
}

// RecordRateLimited counts a request rejected with 429
func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// Handler returns the HTTP handler Prometheus scrapes
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
