package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CallsPlaced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_calls_placed_total",
			Help: "Total number of outbound calls accepted by the voice provider",
		},
		[]string{"source"},
	)

	CallDispatchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_call_dispatch_failures_total",
			Help: "Total number of place-call requests that failed",
		},
		[]string{"source"},
	)

	CallTeardownFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solar_call_teardown_failures_total",
			Help: "Total number of stop-call requests that failed",
		},
	)

	CallDispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solar_call_dispatch_duration_seconds",
			Help:    "Duration of place-call requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	ActiveCalls = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "solar_active_calls",
			Help: "Number of interactive calls in progress (0 or 1)",
		},
	)

	FollowUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_followups_total",
			Help: "Total number of follow-up sends",
		},
		[]string{"log_updated"},
	)

	RosterSweeps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solar_roster_sweeps_total",
			Help: "Total number of completed roster sweeps",
		},
	)

	ClientsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "solar_clients_registered_total",
			Help: "Total number of registered clients",
		},
	)

	OTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_otp_requests_total",
			Help: "One-time code requests and verifications by result",
		},
		[]string{"step", "result"},
	)

	AssistantsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solar_assistants_created_total",
			Help: "Assistant creation requests by result",
		},
		[]string{"result"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "solar_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
