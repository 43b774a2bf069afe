// Package metrics defines all custom Prometheus metrics for the trust core.
// It is the single source of truth for metric names, labels, and help
// strings; promauto registers everything with the default registry at init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trustcore"

// ── Identity pipeline ─────────────────────────────────────────────────────────

// ValidationsTotal counts validation pipeline outcomes.
// Labels:
//   - operation: "register" or "email_change"
//   - outcome: "accepted", "rejected", "rate_limited", "error"
var ValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validations_total",
		Help:      "Total identity validation pipeline runs, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// ── Authorization ─────────────────────────────────────────────────────────────

// AccessDecisionsTotal counts portfolio access decisions.
// Label:
//   - result: "granted", "denied", or "error" (storage fault, denied)
var AccessDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_decisions_total",
		Help:      "Total portfolio access decisions, by result.",
	},
	[]string{"result"},
)

// ── Event log ─────────────────────────────────────────────────────────────────

// EventsAppendedTotal counts security events appended to the log.
// Label:
//   - event_type: the SecurityEvent type string
var EventsAppendedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_appended_total",
		Help:      "Total security events appended to the event log.",
	},
	[]string{"event_type"},
)

// EventAppendFailuresTotal counts event appends that failed. Appends are
// fail-open, so this is the only place those failures are visible.
var EventAppendFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "event_append_failures_total",
		Help:      "Total security event appends that failed and were swallowed.",
	},
)

// ── Anomaly detector ──────────────────────────────────────────────────────────

// AlertsRaisedTotal counts alerts the detector raised.
// Label:
//   - alert_type: "high_frequency_access" or "multiple_unauthorized_attempts"
var AlertsRaisedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_raised_total",
		Help:      "Total security alerts raised by the anomaly detector.",
	},
	[]string{"alert_type"},
)

// DetectorEventsDroppedTotal counts events that fell outside the detector's
// bounded fetch and were excluded from analysis.
var DetectorEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "detector_events_dropped_total",
		Help:      "Events inside the analysis window but beyond the fetch bound.",
	},
)

// DetectorRunDuration measures one detector pass end-to-end.
// Label:
//   - result: "ok" or "error"
var DetectorRunDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "detector_run_duration_seconds",
		Help:      "Duration of one anomaly detector scan.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"result"},
)
