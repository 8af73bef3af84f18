package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	EntriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "entries_created_total",
			Help: "Total trash entries persisted",
		},
	)
	ValidationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entry_validation_failures_total",
			Help: "Entry submissions rejected, by field",
		},
		[]string{"field"},
	)
	LeaderboardRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "leaderboard_requests_total",
			Help: "Leaderboard computations served",
		},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Pending tasks in the audit worker queue",
		},
	)
)

var Handler = promhttp.Handler

func Init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(EntriesCreated)
	prometheus.MustRegister(ValidationFailures)
	prometheus.MustRegister(LeaderboardRequests)
	prometheus.MustRegister(WorkerQueueDepth)
}
