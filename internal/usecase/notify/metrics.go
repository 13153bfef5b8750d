package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for notification pipeline monitoring
var (
	// eventsReceivedTotal tracks routed/ignored/skipped events per type
	eventsReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_events_received_total",
			Help: "Total number of platform events received",
		},
		[]string{"event_type", "outcome"}, // outcome: routed|ignored|skipped
	)

	// notificationDispatchedTotal tracks delivery attempts per channel
	notificationDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_dispatched_total",
			Help: "Total number of notifications dispatched to channels",
		},
		[]string{"channel"},
	)

	// notificationSentTotal tracks delivery results per channel
	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_sent_total",
			Help: "Total number of notification delivery results",
		},
		[]string{"channel", "status"}, // status: success|failure
	)

	// notificationDroppedTotal tracks sheds (circuit breaker open)
	notificationDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_dropped_total",
			Help: "Total number of dropped notifications",
		},
		[]string{"channel", "reason"},
	)

	// notificationDuration tracks delivery duration including retries
	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notify_delivery_duration_seconds",
			Help:    "Notification delivery duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 3, 6, 12, 30}, // retry budget tops out near 12s
		},
		[]string{"channel"},
	)
)

// RecordEvent records the routing outcome for one received event.
func RecordEvent(eventType, outcome string) {
	eventsReceivedTotal.WithLabelValues(eventType, outcome).Inc()
}

// RecordDispatch records a delivery attempt on a channel.
func RecordDispatch(channel string) {
	notificationDispatchedTotal.WithLabelValues(channel).Inc()
}

// RecordSuccess records a successful delivery and its duration.
func RecordSuccess(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "success").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordFailure records a failed delivery and its duration.
func RecordFailure(channel string, duration time.Duration) {
	notificationSentTotal.WithLabelValues(channel, "failure").Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

// RecordDropped records a notification shed before reaching the network.
func RecordDropped(channel, reason string) {
	notificationDroppedTotal.WithLabelValues(channel, reason).Inc()
}
