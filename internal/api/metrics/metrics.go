// Package metrics defines and registers the custom Prometheus metrics of the
// RBAC API. HTTP request metrics come from echoprometheus; this package only
// covers authentication and authorization outcomes.
//
// All metrics register with the default Prometheus registry at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rbac"

// Gate decisions.
const (
	DecisionAllowed         = "allowed"
	DecisionForbidden       = "forbidden"
	DecisionUnauthenticated = "unauthenticated"
)

// ── Authentication ───────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and register calls.
// Labels:
//   - operation: "login" or "register"
//   - result: "success", "invalid", "duplicate", "unauthorized" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and register attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// AuthDuration measures login/register latency, which is dominated by hashing.
var AuthDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_duration_seconds",
		Help:      "Duration of login and register calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Authorization gate ───────────────────────────────────────────────────────

// GateDecisionsTotal counts Authorization Gate outcomes.
// Labels:
//   - scheme: "bearer", "basic" or "none"
//   - decision: "allowed", "forbidden" or "unauthenticated"
var GateDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_decisions_total",
		Help:      "Total number of authorization gate decisions.",
	},
	[]string{"scheme", "decision"},
)
