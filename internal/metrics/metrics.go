package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var (
	socialMetricsOnce sync.Once

	friendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Total number of friend request attempts",
		},
		[]string{"status"},
	)

	friendAcceptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_accepts_total",
			Help: "Total number of friend request accept attempts",
		},
		[]string{"status"},
	)

	friendDeclinesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_declines_total",
			Help: "Total number of friend request decline attempts",
		},
		[]string{"status"},
	)

	messagesSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_sent_total",
			Help: "Total number of direct message send attempts",
		},
		[]string{"status"},
	)

	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Total number of account registration attempts",
		},
		[]string{"status"},
	)
)

// RegisterSocialMetrics registers the counters with the default registry once.
func RegisterSocialMetrics() {
	socialMetricsOnce.Do(func() {
		prometheus.MustRegister(friendRequestsTotal, friendAcceptsTotal, friendDeclinesTotal, messagesSentTotal, registrationsTotal)
	})
}

func IncFriendRequest(status string) {
	RegisterSocialMetrics()
	friendRequestsTotal.WithLabelValues(status).Inc()
}

func IncFriendAccept(status string) {
	RegisterSocialMetrics()
	friendAcceptsTotal.WithLabelValues(status).Inc()
}

func IncFriendDecline(status string) {
	RegisterSocialMetrics()
	friendDeclinesTotal.WithLabelValues(status).Inc()
}

func IncMessageSent(status string) {
	RegisterSocialMetrics()
	messagesSentTotal.WithLabelValues(status).Inc()
}

func IncRegistration(status string) {
	RegisterSocialMetrics()
	registrationsTotal.WithLabelValues(status).Inc()
}

// StatusOf labels an operation outcome.
func StatusOf(err error) string {
	if err != nil {
		return StatusFailed
	}
	return StatusSuccess
}
