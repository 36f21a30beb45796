// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistryOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registry_operations_total",
			Help: "Total number of registry operations by operation and outcome code",
		},
		[]string{"operation", "outcome"},
	)

	RosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_roster_size",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_events_published_total",
			Help: "Roster events delivered per sink",
		},
		[]string{"sink"},
	)

	EventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_events_failed_total",
			Help: "Roster events that a sink failed to deliver",
		},
		[]string{"sink"},
	)

	EventPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roster_event_publish_duration_seconds",
			Help:    "Time spent delivering one roster event to a sink",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sink"},
	)
)

// OutcomeOK labels successful operations.
const OutcomeOK = "ok"
