// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbit_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orbit_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// MutationConflicts counts uniqueness-constraint conflicts surfaced as 409s.
	MutationConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbit_mutation_conflicts_total",
		Help: "Total number of uniqueness conflicts by relation",
	}, []string{"relation"})

	// TokenVerifications counts token verification outcomes.
	TokenVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orbit_token_verifications_total",
		Help: "Total number of token verifications by outcome",
	}, []string{"outcome"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// TrackQuery returns a function that records query latency when called
// (typically deferred at the top of a repository method).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
