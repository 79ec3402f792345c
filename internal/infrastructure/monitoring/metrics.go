package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"path", "method", "status"},
	)
	latencyHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)
	webhookCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stripe_webhook_events_total",
			Help: "Verified Stripe Connect webhook events by type",
		},
		[]string{"type"},
	)
)

// Init registers custom collectors.
func Init() {
	prometheus.MustRegister(requestCounter, latencyHistogram, webhookCounter)
}

// ObserveRequest records request metrics.
func ObserveRequest(path, method, status string, seconds float64) {
	requestCounter.WithLabelValues(path, method, status).Inc()
	latencyHistogram.WithLabelValues(path, method).Observe(seconds)
}

// ObserveWebhookEvent counts one verified webhook delivery.
func ObserveWebhookEvent(eventType string) {
	webhookCounter.WithLabelValues(eventType).Inc()
}
