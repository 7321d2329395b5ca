package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus metrics for the API.
type Metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	ordersCreated   prometheus.Counter
	ordersAccepted  prometheus.Counter
	ordersDelivered prometheus.Counter
	ordersCancelled prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gasdelivery_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gasdelivery_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gasdelivery_orders_created_total",
			Help: "Orders placed by customers",
		}),
		ordersAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gasdelivery_orders_accepted_total",
			Help: "Orders claimed by drivers",
		}),
		ordersDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gasdelivery_orders_delivered_total",
			Help: "Orders delivered",
		}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gasdelivery_orders_cancelled_total",
			Help: "Orders cancelled by customers",
		}),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.ordersCreated,
		m.ordersAccepted,
		m.ordersDelivered,
		m.ordersCancelled,
	)

	return m
}

// RecordOrderCreated increments the created counter.
func (m *Metrics) RecordOrderCreated() { m.ordersCreated.Inc() }

// RecordOrderAccepted increments the accepted counter.
func (m *Metrics) RecordOrderAccepted() { m.ordersAccepted.Inc() }

// RecordOrderDelivered increments the delivered counter.
func (m *Metrics) RecordOrderDelivered() { m.ordersDelivered.Inc() }

// RecordOrderCancelled increments the cancelled counter.
func (m *Metrics) RecordOrderCancelled() { m.ordersCancelled.Inc() }

// Middleware records request counts and latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requestsTotal.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.Observe(time.Since(start).Seconds())
	}
}
