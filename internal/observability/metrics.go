package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TasksTotal counts GetNextTask outcomes per pipeline.
	TasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_tasks_total",
			Help: "Scheduling tasks served, by pipeline and outcome",
		},
		[]string{"pipeline", "outcome"},
	)

	// VotesTotal counts vote submissions; result is applied or duplicate.
	VotesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_votes_total",
			Help: "Vote submissions by relationship type and result",
		},
		[]string{"relationship_type", "result"},
	)

	MirroredVotesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "memo_mirrored_votes_total",
			Help: "Symmetric votes applied to the reverse relationship",
		},
	)

	// RelationshipsCreatedTotal counts relationship rows inserted, by who inserted them.
	RelationshipsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_relationships_created_total",
			Help: "Relationships created, by source",
		},
		[]string{"source"},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "memo_http_requests_total",
			Help: "HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "memo_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(TasksTotal)
	prometheus.MustRegister(VotesTotal)
	prometheus.MustRegister(MirroredVotesTotal)
	prometheus.MustRegister(RelationshipsCreatedTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

func ObserveHTTP(method, route string, status int, dur time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(dur.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
