// Package metrics defines every custom Prometheus metric of the battle API.
// Metrics are registered with the default registry on package load through
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "battle"

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login steps by outcome.
// Labels:
//   - step: "submit" or "verify"
//   - result: "otp_pending", "authenticated", "bad_credentials", "not_verified", "bad_otp", "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login steps, by step and result.",
	},
	[]string{"step", "result"},
)

// OTPIssuedTotal counts one-time passwords generated and stored.
var OTPIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of one-time passwords issued.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts notification outcomes.
// Labels:
//   - kind: "otp", "reset_password", "verify_email", "battle_log"
//   - result: "sent", "failed" (retries exhausted) or "dropped" (queue full)
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications, by kind and delivery result.",
	},
	[]string{"kind", "result"},
)

// NotificationQueueDepth tracks pending notifications in each worker channel.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "notification_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── PokeAPI metrics ───────────────────────────────────────────────────────────

// PokeAPICacheTotal counts response cache lookups.
// Label:
//   - result: "hit" or "miss"
var PokeAPICacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pokeapi_cache_total",
		Help:      "Total number of PokeAPI response cache lookups, by result.",
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestDuration measures request handling time.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests, by method, route and status code.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)
