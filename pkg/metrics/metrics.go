// Package metrics holds the Prometheus collectors shared by the bridge pipeline.
// Collectors register with the default registry; opsserver exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "notifybridge"

var (
	// ActiveConnections counts open producer connections, per ingress.
	ActiveConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_connections",
		Help:      "Number of open producer connections.",
	}, []string{"ingress"})

	// Frames counts frames by ingress and result (ok, malformed, oversized).
	Frames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "frames_total",
		Help:      "Frames received from producers.",
	}, []string{"ingress", "result"})

	// Deliveries counts per-target delivery attempts by target kind and result.
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "deliveries_total",
		Help:      "Delivery attempts per target.",
	}, []string{"kind", "result"})

	// DeliveryDuration observes the duration of single target sends.
	DeliveryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "delivery_duration_seconds",
		Help:      "Duration of sends to one target.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	// Commands counts command invocations by name and final state.
	Commands = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Command invocations by final state.",
	}, []string{"command", "state"})

	// ControlAPIDuration observes control API calls by endpoint and status class.
	ControlAPIDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "control_api_duration_seconds",
		Help:      "Duration of control API requests.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}, []string{"endpoint", "status"})

	// OpsRequests observes requests to the ops HTTP server by route pattern and status.
	OpsRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ops_http_request_duration_seconds",
		Help:      "Duration of ops HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"path", "status"})
)

// Result labels.
const (
	ResultOK        = "ok"
	ResultFailed    = "failed"
	ResultMalformed = "malformed"
	ResultOversized = "oversized"
)
