package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vwcarnet"

// Outcome labels.
const (
	ResultSuccess     = "success"
	ResultFailure     = "failure"
	ResultUnavailable = "unavailable"
)

var RequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Outbound requests by method.",
}, []string{"method"})

var RequestErrorCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_errors_total",
	Help:      "Outbound requests that failed before a response was received.",
}, []string{"method"})

var FailoverCounter = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "api",
	Name:      "failover_rotations_total",
	Help:      "API server rotations caused by the upstream unavailable marker.",
})

var LoginCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "session",
	Name:      "logins_total",
	Help:      "Login attempts by result.",
}, []string{"result"})

var RefreshCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "session",
	Name:      "refreshes_total",
	Help:      "Refresh cycles by result.",
}, []string{"result"})

var NotificationCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "registry",
	Name:      "notifications_total",
	Help:      "Device notifications by kind and event.",
}, []string{"kind", "event"})

var CommandCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "command",
	Name:      "dispatched_total",
	Help:      "Dispatched commands by operation and result.",
}, []string{"operation", "result"})

var DevicesGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "registry",
	Name:      "devices",
	Help:      "Known devices by kind.",
}, []string{"kind"})

var LastRefreshGauge = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "session",
	Name:      "last_refresh_timestamp_seconds",
	Help:      "Unix time of the last successful refresh.",
})
