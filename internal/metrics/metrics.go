// Package metrics holds the Prometheus collectors of the inventory service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts handled HTTP requests.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inventory",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration observes HTTP latency.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inventory",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// DBQueryDuration observes repository operations.
	DBQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "inventory",
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Repository operation latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "status"},
	)

	// FarmingSessionsTotal counts processed farming sessions by resolved type.
	FarmingSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inventory",
			Subsystem: "farming",
			Name:      "sessions_total",
			Help:      "Farming sessions processed.",
		},
		[]string{"type"},
	)

	// FarmingXPGranted sums experience granted by farming.
	FarmingXPGranted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "inventory",
			Subsystem: "farming",
			Name:      "xp_granted_total",
			Help:      "Experience granted by farming sessions.",
		},
	)

	// KitVersionsCreated counts inserted kit versions (lazy defaults and updates).
	KitVersionsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inventory",
			Subsystem: "kits",
			Name:      "versions_created_total",
			Help:      "Kit versions inserted.",
		},
		[]string{"reason"},
	)

	// HealthChecksTotal counts gRPC health checks by requested service and answer.
	HealthChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "inventory",
			Subsystem: "health",
			Name:      "checks_total",
			Help:      "gRPC health checks answered.",
		},
		[]string{"service", "result"},
	)
)

// Register adds every collector to registerer (prometheus.DefaultRegisterer when nil).
func Register(registerer prometheus.Registerer) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		DBQueryDuration,
		FarmingSessionsTotal,
		FarmingXPGranted,
		KitVersionsCreated,
		HealthChecksTotal,
	)
}

// ObserveDB records one repository operation that started at start.
func ObserveDB(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DBQueryDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
