package domain

import (
	"errors"
	"strings"
	"time"
)

// Severity ranks how security-relevant an event is.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Well-known security event types emitted by the core.
const (
	EventPortfolioViewGranted = "portfolio_view_granted"
	EventUnauthorizedAccess   = "unauthorized_portfolio_access"
	EventEmailChanged         = "email_changed"
	EventEmailChangeRejected  = "email_change_rejected"
	EventRegistrationRejected = "registration_rejected"
	EventSuspiciousUpload     = "suspicious_upload"
)

// SecurityEvent is one immutable entry in the append-only event log.
// Ordering by timestamp is significant for windowed analysis.
type SecurityEvent struct {
	ID          string            `json:"id" bson:"_id,omitempty"`
	EventType   string            `json:"event_type" bson:"event_type"`
	SubjectID   string            `json:"subject_id,omitempty" bson:"subject_id,omitempty"`
	TargetID    string            `json:"target_id,omitempty" bson:"target_id,omitempty"`
	ResourceRef string            `json:"resource_ref,omitempty" bson:"resource_ref,omitempty"`
	Severity    Severity          `json:"severity" bson:"severity"`
	Timestamp   time.Time         `json:"timestamp" bson:"timestamp"`
	Metadata    map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
}

// Suspicious reports whether the event counts toward the unauthorized-activity
// aggregate: either its type names an unauthorized action or its severity is
// high or critical.
func (e *SecurityEvent) Suspicious() bool {
	if strings.Contains(e.EventType, "unauthorized") {
		return true
	}
	return e.Severity == SeverityHigh || e.Severity == SeverityCritical
}

// Alert types raised by the anomaly detector.
const (
	AlertHighFrequencyAccess          = "high_frequency_access"
	AlertMultipleUnauthorizedAttempts = "multiple_unauthorized_attempts"
)

// AlertStatus is the operator-facing lifecycle state of an alert.
type AlertStatus string

const (
	AlertActive       AlertStatus = "active"
	AlertAcknowledged AlertStatus = "acknowledged"
	AlertResolved     AlertStatus = "resolved"
)

// alertTransitions defines the allowed operator state machine.
var alertTransitions = map[AlertStatus][]AlertStatus{
	AlertActive:       {AlertAcknowledged, AlertResolved},
	AlertAcknowledged: {AlertResolved},
}

var ErrAlertNotFound = errors.New("alert not found")
var ErrInvalidAlertTransition = errors.New("invalid alert status transition")

// CanTransitionTo reports whether an operator may move an alert from s to next.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	for _, allowed := range alertTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SecurityAlert is raised by the anomaly detector. Only its status is
// mutable, and only through the operator workflow.
type SecurityAlert struct {
	ID              string      `json:"id" bson:"_id,omitempty"`
	AlertType       string      `json:"alert_type" bson:"alert_type"`
	Severity        Severity    `json:"severity" bson:"severity"`
	EvidenceSummary string      `json:"evidence_summary" bson:"evidence_summary"`
	Timestamp       time.Time   `json:"timestamp" bson:"timestamp"`
	Status          AlertStatus `json:"status" bson:"status"`
}
