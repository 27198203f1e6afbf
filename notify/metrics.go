package notify

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "projectflow"

var (
	enqueuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "notifications",
		Name:      "enqueued_total",
		Help:      "Notification jobs persisted for delivery.",
	}, []string{"kind"})

	attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "notifications",
		Name:      "attempts_total",
		Help:      "Delivery attempts by outcome.",
	}, []string{"kind", "result"})

	finishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "notifications",
		Name:      "finished_total",
		Help:      "Jobs that reached a final status (sent or failed).",
	}, []string{"kind", "status"})

	deliverySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "notifications",
		Name:      "attempt_duration_seconds",
		Help:      "Duration of a single delivery attempt.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})
)
