// Package metrics defines and registers all custom Prometheus metrics for
// the credit scoring API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "creditscore"

// ── Query routing metrics ─────────────────────────────────────────────────────

// QueriesRoutedTotal counts routed queries by resolved intent.
// Label:
//   - intent: "list_users", "assess", "help", or "general"
var QueriesRoutedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queries_routed_total",
		Help:      "Total number of free-text queries, labelled by resolved intent.",
	},
	[]string{"intent"},
)

// ── Scoring metrics ───────────────────────────────────────────────────────────

// AssessmentsTotal counts produced assessments by scoring path.
// Label:
//   - source: "llm" or "rules" (deterministic fallback)
var AssessmentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assessments_total",
		Help:      "Total number of credit assessments, labelled by scoring path.",
	},
	[]string{"source"},
)

// LLMRequestDuration measures the latency of round trips to the LLM service.
// Label:
//   - op: "probe" or "chat"
var LLMRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "Duration of LLM service round trips.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
	[]string{"op"},
)

// ── Pipeline metrics ──────────────────────────────────────────────────────────

// ExtractorFailuresTotal counts domain extractor failures.
// Label:
//   - domain: "utilities", "financials", or "ecommerce"
var ExtractorFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractor_failures_total",
		Help:      "Total number of domain extractor failures, by domain.",
	},
	[]string{"domain"},
)

// AggregationDuration measures a full source re-read and master join.
var AggregationDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "aggregation_duration_seconds",
		Help:      "Duration of a full feature aggregation pass.",
		Buckets:   prometheus.DefBuckets, // .005 … 10
	},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatDedupTotal counts duplicate-submission checks on the chat surface.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new message, processed)
var ChatDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_dedup_total",
		Help:      "Total number of chat deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)
