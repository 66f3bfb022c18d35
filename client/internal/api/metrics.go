package api

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK           = "ok"
	outcomeHTTPError    = "http_error"
	outcomeNetworkError = "network_error"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "identities_client",
			Name:      "requests_total",
			Help:      "Requests issued to the identity service by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "identities_client",
			Name:      "request_duration_seconds",
			Help:      "Round-trip latency of identity service requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)
)

func observe(op, outcome string, start time.Time) {
	requestsTotal.WithLabelValues(op, outcome).Inc()
	requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
