package explorer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	queryOrders = "orders"
	queryCount  = "count"

	resultSuccess = "success"
	resultFailure = "failure"
	resultStale   = "stale"
)

var (
	queriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "order_explorer",
		Subsystem: "query",
		Name:      "total",
		Help:      "Order explorer queries broken down by query and result.",
	}, []string{"query", "result"})

	queryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "order_explorer",
		Subsystem: "query",
		Name:      "latency_seconds",
		Help:      "Latency distribution for order explorer queries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})
)

func recordQuery(query, result string, latency time.Duration) {
	queriesTotal.With(prometheus.Labels{"query": query, "result": result}).Inc()
	queryLatency.With(prometheus.Labels{"query": query}).Observe(latency.Seconds())
}
