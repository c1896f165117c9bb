// Package metrics defines and registers all custom Prometheus metrics for the
// portal gateway. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation (promauto) and exposed by the /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal"

// ── Backend gateway metrics ──────────────────────────────────────────────────

// BackendRequestsTotal counts calls made through the authenticated request gateway.
// Labels:
//   - method: HTTP method (e.g. "GET")
//   - status: response status code, or "error" when no response was received
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of REST backend calls, by method and status.",
	},
	[]string{"method", "status"},
)

// BackendRequestDuration measures REST backend latency.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of REST backend calls.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)

// SessionExpiriesTotal counts how 401/403 responses were handled.
// Label:
//   - outcome: "completed", "skipped" or "signout_failed"
var SessionExpiriesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_expiries_total",
		Help:      "Total number of session rejections handled by the expiry policy.",
	},
	[]string{"outcome"},
)

// ── Guard metrics ────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard decisions.
// Labels:
//   - guard: "auth", "moderator" or "admin"
//   - verdict: "allow", "loading", "redirect", "forbidden" or "unavailable"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by guard and verdict.",
	},
	[]string{"guard", "verdict"},
)

// ── Identity metrics ─────────────────────────────────────────────────────────

// IdentityOperationsTotal counts identity backend operations.
// Labels:
//   - op: "register", "sign_in", "federated_sign_in", "sign_out", "update_profile", "refresh", "restore"
//   - result: "ok" or the credential error code
var IdentityOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_operations_total",
		Help:      "Total number of identity backend operations, by operation and result.",
	},
	[]string{"op", "result"},
)

// IdentityDispatchQueueDepth tracks pending identity notifications per worker.
// Label:
//   - worker_id: numeric worker index
var IdentityDispatchQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "identity_dispatch_queue_depth",
		Help:      "Current number of identity notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Portal instance metrics ──────────────────────────────────────────────────

// PortalInstances is the number of live browser sessions hosted by the gateway.
var PortalInstances = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "instances",
		Help:      "Current number of live portal instances.",
	},
)
