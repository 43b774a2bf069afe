package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkmatch/trust-core/internal/api/metrics"
	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

// DetectorConfig tunes one anomaly detector instance. Zero values fall back
// to the defaults below.
type DetectorConfig struct {
	// Window is how far back each scan looks.
	Window time.Duration
	// FetchBound caps how many events one scan analyses. Events beyond the
	// bound are excluded and reported via the dropped-events counter.
	FetchBound int64
	// FrequencyThreshold is the per-subject event count above which a
	// high_frequency_access alert is raised.
	FrequencyThreshold int
	// UnauthorizedThreshold is the total count of unauthorized or
	// high-severity events above which a multiple_unauthorized_attempts
	// alert is raised.
	UnauthorizedThreshold int
}

func (c DetectorConfig) withDefaults() DetectorConfig {
	if c.Window <= 0 {
		c.Window = time.Hour
	}
	if c.FetchBound <= 0 {
		c.FetchBound = 1000
	}
	if c.FrequencyThreshold <= 0 {
		c.FrequencyThreshold = 50
	}
	if c.UnauthorizedThreshold <= 0 {
		c.UnauthorizedThreshold = 10
	}
	return c
}

// AnomalyDetector scans a recent window of the security event log and raises
// alerts when thresholds are crossed. Each run is a stateless full rescan of
// its window; no cursor or backoff state survives between runs.
type AnomalyDetector struct {
	events ports.SecurityEventRepository
	alerts ports.AlertRepository
	cfg    DetectorConfig
	log    zerolog.Logger
}

// NewAnomalyDetector builds a detector with the given thresholds.
func NewAnomalyDetector(
	events ports.SecurityEventRepository,
	alerts ports.AlertRepository,
	cfg DetectorConfig,
	log zerolog.Logger,
) *AnomalyDetector {
	return &AnomalyDetector{events: events, alerts: alerts, cfg: cfg.withDefaults(), log: log}
}

// Run executes one detection pass. A failed run is logged by the scheduler
// and the next interval proceeds independently.
func (d *AnomalyDetector) Run(ctx context.Context) error {
	start := time.Now()
	since := start.UTC().Add(-d.cfg.Window)

	batch, err := d.events.FetchSince(ctx, since, d.cfg.FetchBound)
	if err != nil {
		metrics.DetectorRunDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("detector: fetch events: %w", err)
	}

	// Surface truncation: events beyond the fetch bound are excluded from
	// this pass, which trades recall for a bounded scan cost.
	if int64(len(batch)) >= d.cfg.FetchBound {
		if total, countErr := d.events.CountSince(ctx, since); countErr == nil && total > d.cfg.FetchBound {
			dropped := total - d.cfg.FetchBound
			metrics.DetectorEventsDroppedTotal.Add(float64(dropped))
			d.log.Warn().Int64("dropped", dropped).Int64("bound", d.cfg.FetchBound).Msg("detector window truncated")
		}
	}

	perSubject := make(map[string]int)
	suspicious := 0
	for _, ev := range batch {
		if ev.SubjectID != "" {
			perSubject[ev.SubjectID]++
		}
		if ev.Suspicious() {
			suspicious++
		}
	}

	now := time.Now().UTC()
	for subject, count := range perSubject {
		if count <= d.cfg.FrequencyThreshold {
			continue
		}
		d.raise(ctx, &domain.SecurityAlert{
			AlertType:       domain.AlertHighFrequencyAccess,
			Severity:        domain.SeverityHigh,
			EvidenceSummary: fmt.Sprintf("subject %s generated %d events in the last %s", subject, count, d.cfg.Window),
			Timestamp:       now,
			Status:          domain.AlertActive,
		})
	}

	if suspicious > d.cfg.UnauthorizedThreshold {
		d.raise(ctx, &domain.SecurityAlert{
			AlertType:       domain.AlertMultipleUnauthorizedAttempts,
			Severity:        domain.SeverityCritical,
			EvidenceSummary: fmt.Sprintf("%d unauthorized or high-severity events in the last %s", suspicious, d.cfg.Window),
			Timestamp:       now,
			Status:          domain.AlertActive,
		})
	}

	metrics.DetectorRunDuration.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	d.log.Debug().Int("events", len(batch)).Int("suspicious", suspicious).Msg("detector pass complete")
	return nil
}

// raise inserts an alert best-effort: a failed insert is logged, the pass
// continues with the remaining alerts.
func (d *AnomalyDetector) raise(ctx context.Context, alert *domain.SecurityAlert) {
	if err := d.alerts.Insert(ctx, alert); err != nil {
		d.log.Error().Err(err).Str("alert_type", alert.AlertType).Msg("failed to raise alert")
		return
	}
	metrics.AlertsRaisedTotal.WithLabelValues(alert.AlertType).Inc()
	d.log.Warn().
		Str("alert_type", alert.AlertType).
		Str("severity", string(alert.Severity)).
		Str("evidence", alert.EvidenceSummary).
		Msg("security alert raised")
}
