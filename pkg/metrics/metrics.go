package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Tracking metrics
	LocationReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "location_reports_total",
			Help: "Total number of bus location reports received",
		},
		[]string{"status"},
	)

	FanoutDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fanout_deliveries_total",
			Help: "Per-subscriber delivery attempts of location updates",
		},
		[]string{"topic_kind", "status"},
	)

	FanoutDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fanout_dropped_messages_total",
			Help: "Messages dropped from full subscriber queues",
		},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"endpoint"},
	)

	TopicsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fanout_topics_total",
			Help: "Current number of topics with at least one subscriber",
		},
	)

	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	IntegrationPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_messages_published_total",
			Help: "Location updates forwarded to external brokers",
		},
		[]string{"sink", "status"},
	)

	RetentionPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "location_retention_pruned_total",
			Help: "Location reports deleted by the retention job",
		},
	)
)

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// RecordHTTPMetrics records HTTP request metrics
func RecordHTTPMetrics(service, method, path string, statusCode int, duration time.Duration) {
	code := strconv.Itoa(statusCode)
	HttpRequestsTotal.WithLabelValues(service, method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, code).Observe(duration.Seconds())
}

// RecordDatabaseQuery records database query metrics
func RecordDatabaseQuery(operation string, err error, duration time.Duration) {
	DatabaseQueriesTotal.WithLabelValues(operation, status(err)).Inc()
	DatabaseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordLocationReport counts an ingestion attempt by outcome: stored, invalid, not_found, error.
func RecordLocationReport(outcome string) {
	LocationReportsTotal.WithLabelValues(outcome).Inc()
}

// RecordFanout records the outcome of one publish to a topic.
func RecordFanout(topicKind string, delivered, failed int) {
	FanoutDeliveriesTotal.WithLabelValues(topicKind, "delivered").Add(float64(delivered))
	FanoutDeliveriesTotal.WithLabelValues(topicKind, "failed").Add(float64(failed))
}

// RecordIntegrationPublish records an outbound broker publish.
func RecordIntegrationPublish(sink string, err error) {
	IntegrationPublishedTotal.WithLabelValues(sink, status(err)).Inc()
}
