package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	AuthDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_auth_decisions_total",
			Help: "Outcomes of the authentication check, by reason",
		},
		[]string{"reason"},
	)

	Callbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_callbacks_total",
			Help: "Provider callbacks handled, by kind and result",
		},
		[]string{"kind", "result"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_provider_request_duration_seconds",
			Help:    "Time spent waiting on the identity provider",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "result"},
	)
)
