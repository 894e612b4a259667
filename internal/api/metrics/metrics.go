// Package metrics defines the custom Prometheus metrics of the rental API.
// All metrics are registered with the default registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sixcities"

// Gate names for AuthDecisionsTotal.
const (
	GateRequired = "required"
	GateOptional = "optional"
	GateOwner    = "owner"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthDecisionsTotal counts authentication and ownership decisions.
// Labels:
//   - gate: "required", "optional" or "owner"
//   - result: "allowed", "anonymous", "missing_header", "malformed_header",
//     "invalid_token", "unauthenticated" or "forbidden"
var AuthDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_decisions_total",
		Help:      "Total number of auth gate decisions, by gate and result.",
	},
	[]string{"gate", "result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "locked" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

var OffersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "offers_created_total",
		Help:      "Total number of offers created, by city.",
	},
	[]string{"city"},
)

var CommentsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "comments_created_total",
		Help:      "Total number of comments created.",
	},
)

// UploadsTotal counts avatar uploads.
// Label:
//   - result: "stored", "missing", "too_large", "unsupported_type" or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of file uploads, by result.",
	},
	[]string{"result"},
)

// StatsRecalculationDuration measures one offer stats recalculation.
// Label:
//   - result: "ok" or "error"
var StatsRecalculationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "stats_recalculation_duration_seconds",
		Help:      "Duration of offer rating and comment count recalculations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)

// StatsDroppedTotal counts recalculations dropped because a worker queue was full.
var StatsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stats_dropped_total",
		Help:      "Total number of offer stats recalculations dropped on a full queue.",
	},
)
