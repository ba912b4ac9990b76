// File: /metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	WorkoutsLogged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitcrew_workouts_logged_total",
			Help: "Total number of workouts logged",
		},
	)

	FriendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcrew_friend_requests_total",
			Help: "Friend request transitions",
		},
		[]string{"action"},
	)

	Reactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcrew_reactions_total",
			Help: "Reactions recorded by type",
		},
		[]string{"type"},
	)

	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitcrew_emails_total",
			Help: "Outbound emails by result",
		},
		[]string{"kind", "result"},
	)

	StreakRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fitcrew_streak_recompute_duration_seconds",
			Help:    "Duration of a full streak recomputation run",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
	)
)
