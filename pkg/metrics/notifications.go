package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// NotificationMetrics records delivery outcomes per channel.
type NotificationMetrics struct {
	outcomes *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewNotificationMetrics registers the delivery metrics on the provided registerer.
func NewNotificationMetrics(reg prometheus.Registerer) *NotificationMetrics {
	if reg == nil {
		return &NotificationMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_outcomes_total",
		Help: "Notification delivery attempts by channel and outcome.",
	}, []string{"channel", "outcome"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_provider_seconds",
		Help:    "Provider call latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"channel"})
	reg.MustRegister(outcomes, latency)
	return &NotificationMetrics{
		outcomes: outcomes,
		latency:  latency,
	}
}

// IncOutcome counts one delivery attempt result.
func (m *NotificationMetrics) IncOutcome(channel, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(channel), normalizeLabel(outcome)).Inc()
}

// ObserveProviderLatency records how long a provider call took.
func (m *NotificationMetrics) ObserveProviderLatency(channel string, duration time.Duration) {
	if m == nil || m.latency == nil {
		return
	}
	m.latency.WithLabelValues(normalizeLabel(channel)).Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "unknown"
	}
	return v
}
