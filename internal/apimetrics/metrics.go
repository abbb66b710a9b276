// Package apimetrics holds the Prometheus collectors exported on /metrics.
package apimetrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lefade",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request duration observed at the API layer.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "route", "status"})

	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lefade",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests handled by the API.",
	}, []string{"method", "route", "status"})

	// BookingsTotal counts booking attempts by outcome
	// (created, duplicate, conflict, rejected).
	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lefade",
		Subsystem: "booking",
		Name:      "bookings_total",
		Help:      "Booking attempts by outcome.",
	}, []string{"outcome"})

	RefundsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lefade",
		Subsystem: "booking",
		Name:      "refunds_total",
		Help:      "Refunds attempted on cancellation by outcome.",
	}, []string{"outcome"})

	WebhookRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lefade",
		Subsystem: "webhook",
		Name:      "requests_total",
		Help:      "Total Stripe webhook requests by event type and outcome.",
	}, []string{"event_type", "outcome"})

	WebhookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lefade",
		Subsystem: "webhook",
		Name:      "duration_seconds",
		Help:      "Stripe webhook processing duration in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"event_type"})
)

// Middleware records request count and latency keyed by the matched route
// template, so path parameters never explode label cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		RequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	}
}
