// Package metrics defines and registers all custom Prometheus metrics for
// the Artijam cart API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "artijam_cart"

// ── Mutation metrics ──────────────────────────────────────────────────────────

// MutationsTotal counts cart mutations by operation and outcome.
// Labels:
//   - op: "add", "remove", "set_quantity"
//   - result: "ok" or "error"
var MutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutations_total",
		Help:      "Total number of cart mutations, by operation and result.",
	},
	[]string{"op", "result"},
)

// MutationDuration measures how long a single mutation takes end-to-end,
// including its wait in the per-cart queue.
var MutationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mutation_duration_seconds",
		Help:      "Duration of cart mutations from enqueue to completion.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"op"},
)

// MutationQueueDepth tracks the number of jobs waiting in each cart-queue
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MutationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mutation_queue_depth",
		Help:      "Current number of jobs pending in each cart queue worker channel.",
	},
	[]string{"worker_id"},
)

// ── Merge metrics ─────────────────────────────────────────────────────────────

// MergesTotal counts guest-to-user cart merge attempts.
// Label:
//   - result: "merged", "skipped" (no-op merge), or "incomplete"
var MergesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "merges_total",
		Help:      "Total number of guest cart merge attempts, by result.",
	},
	[]string{"result"},
)

// MergedItemsTotal counts guest items folded into user carts.
// Label:
//   - mode: "summed" (quantity added onto an existing row) or "moved"
//     (inserted as a new user-cart row)
var MergedItemsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "merged_items_total",
		Help:      "Total number of guest cart items reconciled into user carts.",
	},
	[]string{"mode"},
)

// ── Analytics metrics ─────────────────────────────────────────────────────────

// AnalyticsDropsTotal counts best-effort analytics increments that failed
// and were dropped without affecting the cart mutation.
var AnalyticsDropsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analytics_drops_total",
		Help:      "Total number of cart_adds analytics increments dropped on error.",
	},
)
