// Package metrics defines and registers the custom Prometheus metrics of the
// HOSPOS clients. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hospos"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls made to the HOSPOS REST backend.
// Labels:
//   - endpoint: the route template (e.g. "/api/products", "/api/users/:id/pin")
//   - outcome: "ok", "status", "transport" or "payload"
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the HOSPOS backend, by outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// BackendRequestDuration measures backend round trips.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of HOSPOS backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Screen metrics ────────────────────────────────────────────────────────────

// StaleResponsesTotal counts list responses dropped because a newer request
// had already been issued by the same screen.
var StaleResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screen_stale_responses_total",
		Help:      "Total number of list responses discarded as stale.",
	},
	[]string{"screen"},
)

// MalformedPayloadsTotal counts list responses that were not a JSON array.
var MalformedPayloadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "screen_malformed_payloads_total",
		Help:      "Total number of list responses that were not a JSON array.",
	},
	[]string{"screen"},
)

// DiscountExpiriesTotal counts countdowns that reached zero and triggered a refetch.
var DiscountExpiriesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "discount_expiries_total",
		Help:      "Total number of discount countdowns that reached zero.",
	},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// GuardRedirectsTotal counts requests turned away by the route guard.
// Label:
//   - target: "login" or "unauthorized"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of route guard redirects, by target page.",
	},
	[]string{"target"},
)

// LoginsTotal counts login attempts. Label result: "ok", "invalid" or "error".
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Till metrics ──────────────────────────────────────────────────────────────

// LinkAttemptsTotal counts till link submissions.
// Label:
//   - result: "success", "error", "invalid" or "rejected" (in flight or already linked)
var LinkAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "till_link_attempts_total",
		Help:      "Total number of till link submissions, by result.",
	},
	[]string{"result"},
)

// HeartbeatsTotal counts heartbeats sent by a linked till. Label result: "ok" or "error".
var HeartbeatsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "till_heartbeats_total",
		Help:      "Total number of till heartbeats, by result.",
	},
	[]string{"result"},
)
