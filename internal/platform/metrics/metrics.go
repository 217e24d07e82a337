// Package metrics declares the Prometheus collectors of the service. They
// register with the default registry, served on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bloqer"

var (
	// HTTPRequests counts handled requests.
	// Labels: method, route (the gin full path), status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	// HTTPLatency measures request handling time.
	// Labels: method, route
	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Mutations counts structural and budget mutations.
	// Labels: operation, outcome (ok, domain_error, error)
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "core",
		Name:      "mutations_total",
		Help:      "Total WBS and budget mutations by outcome",
	}, []string{"operation", "outcome"})

	// EventsPublished counts domain events handed to publishers.
	// Labels: name
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Total domain events published after commit",
	}, []string{"name"})

	// EventPublishFailures counts events a sink failed to accept.
	// Labels: sink
	EventPublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "publish_failures_total",
		Help:      "Total domain events a publisher failed to deliver",
	}, []string{"sink"})

	// RollupDuration measures rollup computation, including the data load.
	RollupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "rollup",
		Name:      "duration_seconds",
		Help:      "Version rollup computation time in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	// RollupShared counts rollup requests answered by an in-flight computation.
	RollupShared = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rollup",
		Name:      "shared_total",
		Help:      "Total rollup requests collapsed into a concurrent identical request",
	})
)

// Outcome labels a finished mutation for Mutations.
func Outcome(err error, isDomain bool) string {
	switch {
	case err == nil:
		return "ok"
	case isDomain:
		return "domain_error"
	default:
		return "error"
	}
}
