package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Lead metrics
	LeadWritesTotal    *prometheus.CounterVec
	LeadEventsTotal    *prometheus.CounterVec
	FeedSubscribers    prometheus.Gauge
	DashboardQueries   prometheus.Counter
	DashboardQueryTime prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		LeadWritesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_writes_total",
				Help: "Total number of lead write operations",
			},
			[]string{"operation", "status"},
		),

		LeadEventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lead_change_events_total",
				Help: "Total number of change events published to the feed",
			},
			[]string{"type"},
		),

		FeedSubscribers: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lead_feed_subscribers",
				Help: "Number of active change-feed subscriptions",
			},
		),

		DashboardQueries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "dashboard_queries_total",
				Help: "Total number of dashboard view computations",
			},
		),

		DashboardQueryTime: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dashboard_query_duration_seconds",
				Help:    "Dashboard view computation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Lead write metrics
func (m *Metrics) RecordLeadWrite(operation, status string) {
	m.LeadWritesTotal.WithLabelValues(operation, status).Inc()
}

// Change feed metrics
func (m *Metrics) RecordLeadEvent(eventType string) {
	m.LeadEventsTotal.WithLabelValues(eventType).Inc()
}

// Dashboard metrics
func (m *Metrics) RecordDashboardQuery(duration time.Duration) {
	m.DashboardQueries.Inc()
	m.DashboardQueryTime.Observe(duration.Seconds())
}
