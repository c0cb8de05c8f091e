// Package metrics defines and registers all custom Prometheus metrics for
// the portal gateway. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portal_gateway"

// Gate decision outcomes used as label values.
const (
	DecisionPublic            = "public"
	DecisionAllowed           = "allowed"
	DecisionRedirectNoSession = "redirect_no_session"
	DecisionRedirectBadTokens = "redirect_bad_tokens"
	DecisionRedirectFetchFail = "redirect_fetch_failed"
)

// GateDecisionsTotal counts auth gate outcomes per request.
// Label:
//   - outcome: one of the Decision* constants above
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total auth gate decisions, labelled by outcome.",
	},
	[]string{"outcome"},
)

// UserFetchDuration measures the per-request backend user lookup.
// Label:
//   - result: "ok" or "error"
var UserFetchDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "user_fetch_duration_seconds",
		Help:      "Duration of the current-user fetch performed by the auth gate.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// LoginAttemptsTotal counts credential logins handled by the gateway.
// Label:
//   - result: "ok", "rejected", or "rate_limited"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total POST /login attempts, labelled by result.",
	},
	[]string{"result"},
)

// SessionLogoutsTotal counts session teardowns.
// Label:
//   - reason: "explicit" (logout endpoint), "login_page" (idempotent clear),
//     or "auth_failure"
var SessionLogoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_logouts_total",
		Help:      "Total cookie session teardowns, labelled by reason.",
	},
	[]string{"reason"},
)
