package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "social_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	auditEventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_audit_events_published_total",
			Help: "Total number of audit events published.",
		},
		[]string{"event_name"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "social_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
	domainEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "social_domain_events_total",
			Help: "Domain events handed to the broker, by outcome.",
		},
		[]string{"event", "status"},
	)
	metricsOnce sync.Once
)

func InitMetrics(reg prometheus.Registerer) {
	metricsOnce.Do(func() {
		reg.MustRegister(httpRequestsTotal, httpRequestDuration, auditEventsPublishedTotal, amqpPublishErrorsTotal, domainEventsTotal)
	})
}

func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unknown"
	}
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func IncAuditEventPublished(eventName string) {
	if eventName == "" {
		eventName = "unknown"
	}
	auditEventsPublishedTotal.WithLabelValues(eventName).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}

// RecordDomainEvent counts one publish attempt. A failure also bumps the AMQP error counter.
func RecordDomainEvent(event string, err error) {
	if err != nil {
		domainEventsTotal.WithLabelValues(event, "failed").Inc()
		amqpPublishErrorsTotal.Inc()
		return
	}
	domainEventsTotal.WithLabelValues(event, "published").Inc()
}
