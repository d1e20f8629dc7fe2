package ablecloud

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ablecloud_requests_total",
			Help: "Total relay requests by service and outcome.",
		},
		[]string{"service", "outcome"},
	)
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ablecloud_request_duration_seconds",
			Help:    "Relay request latency by service.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service"},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, RequestDuration)
}

const (
	outcomeOk        = "ok"
	outcomeStatus    = "status"
	outcomeTransport = "transport"
	outcomeError     = "error"
)

func observe(service string, err error, elapsed time.Duration) {
	RequestCounter.WithLabelValues(service, outcome(err)).Inc()
	RequestDuration.WithLabelValues(service).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	var statusErr *StatusError
	var transportErr *TransportError
	switch {
	case err == nil:
		return outcomeOk
	case errors.As(err, &statusErr):
		return outcomeStatus
	case errors.As(err, &transportErr):
		return outcomeTransport
	default:
		return outcomeError
	}
}
