package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creatorhub_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "creatorhub_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// Business
	UsersRegistered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creatorhub_users_registered_total",
			Help: "Total accounts created",
		},
		[]string{"role", "provider"},
	)

	LoginsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "creatorhub_logins_failed_total",
			Help: "Total rejected login attempts",
		},
	)

	RoomMessagesPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "creatorhub_room_messages_total",
			Help: "Total room chat messages persisted",
		},
	)

	DMsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "creatorhub_dms_sent_total",
			Help: "Total direct messages persisted",
		},
	)

	// Realtime
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "creatorhub_ws_connections",
			Help: "Open realtime connections on this instance",
		},
	)

	WSEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "creatorhub_ws_events_total",
			Help: "Realtime events processed by kind and outcome",
		},
		[]string{"event", "outcome"},
	)
)
