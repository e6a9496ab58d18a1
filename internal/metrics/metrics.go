package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmailsComposed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "emails_composed_total",
		Help: "Email records persisted with a tracking pixel",
	})

	OpensTracked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_open_requests_total",
			Help: "Tracking pixel fetches by outcome",
		},
		[]string{"result"}, // matched, unknown, invalid, error
	)

	EmailsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emails_dispatched_total",
			Help: "Emails handed to the mail transport by outcome",
		},
		[]string{"result"}, // sent, failed
	)

	FollowUpsPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "followups_pending",
		Help: "Unopened emails found by the most recent follow-up scan",
	})

	UpstreamCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_call_duration_seconds",
			Help:    "Latency of scraper and AI provider calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		},
		[]string{"service", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)
)

func IncrementOpen(result string) {
	OpensTracked.WithLabelValues(result).Inc()
}

func IncrementDispatch(result string) {
	EmailsDispatched.WithLabelValues(result).Inc()
}

func RecordUpstreamCall(service, status string, d time.Duration) {
	UpstreamCallDuration.WithLabelValues(service, status).Observe(d.Seconds())
}

func RecordHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
