package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetrack_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timetrack_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	// TimerTransitions counts start/stop attempts by outcome
	// (started, declined, stopped, conflict, not_found, forbidden, error).
	TimerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetrack_timer_transitions_total",
			Help: "Total number of timer start and stop attempts",
		},
		[]string{"action", "outcome"},
	)
)

const (
	ActionStart = "start"
	ActionStop  = "stop"

	OutcomeStarted   = "started"
	OutcomeDeclined  = "declined"
	OutcomeStopped   = "stopped"
	OutcomeConflict  = "conflict"
	OutcomeNotFound  = "not_found"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)

func ObserveTimer(action, outcome string) {
	TimerTransitions.WithLabelValues(action, outcome).Inc()
}
