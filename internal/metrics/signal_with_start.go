package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for a signal-with-start call.
const (
	OutcomeStarted            = "started"
	OutcomeSignaled           = "signaled"
	OutcomeIdentityMismatch   = "identity_mismatch"
	OutcomeInvalid            = "invalid"
	OutcomeBackendUnavailable = "backend_unavailable"
	OutcomeAlreadyCompleted   = "already_completed"
	OutcomeError              = "error"
)

var (
	// SignalWithStartTotal counts signal-with-start calls by workflow type
	// and outcome.
	SignalWithStartTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signal_with_start_total",
			Help: "Total number of signal-with-start calls by workflow type and outcome",
		},
		[]string{"workflow_type", "outcome"},
	)

	signalWithStartDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signal_with_start_duration_seconds",
			Help:    "Round trip time of signal-with-start requests to the Temporal frontend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"workflow_type"},
	)
)

// ObserveSignalWithStart records one signal-with-start call. A zero elapsed
// duration means no request reached the backend and is not observed.
func ObserveSignalWithStart(workflowType, outcome string, elapsed time.Duration) {
	SignalWithStartTotal.WithLabelValues(workflowType, outcome).Inc()
	if elapsed > 0 {
		signalWithStartDuration.WithLabelValues(workflowType).Observe(elapsed.Seconds())
	}
}
