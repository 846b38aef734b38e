package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	capabilityDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_explorer",
		Subsystem: "authz",
		Name:      "capability_decisions_total",
		Help:      "Capability decisions per capability, enforcement mode and outcome.",
	}, []string{"capability", "mode", "decision"})

	capabilityCheckDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "order_explorer",
		Subsystem: "authz",
		Name:      "capability_check_seconds",
		Help:      "Time spent evaluating a capability against the policy.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 6),
	})
)

// decision is "shadow_denied" when shadow mode grants a capability the policy
// refused.
func decision(mode Mode, granted bool) string {
	switch {
	case granted:
		return "allowed"
	case mode == ModeShadow:
		return "shadow_denied"
	default:
		return "denied"
	}
}

func recordCapabilityCheck(capability string, mode Mode, granted bool, took time.Duration) {
	capabilityDecisions.WithLabelValues(capability, string(mode), decision(mode, granted)).Inc()
	capabilityCheckDuration.Observe(took.Seconds())
}
