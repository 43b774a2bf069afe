package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkmatch/trust-core/internal/api/metrics"
	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

type securityLog struct {
	events ports.SecurityEventRepository
	log    zerolog.Logger
}

// NewSecurityLog returns a fail-open SecurityRecorder: append failures are
// logged and counted but never propagated, so observability faults cannot
// abort the operation that triggered the event.
func NewSecurityLog(events ports.SecurityEventRepository, log zerolog.Logger) ports.SecurityRecorder {
	return &securityLog{events: events, log: log}
}

func (s *securityLog) Record(ctx context.Context, event domain.SecurityEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Severity == "" {
		event.Severity = domain.SeverityLow
	}

	if _, err := s.events.Append(ctx, &event); err != nil {
		metrics.EventAppendFailuresTotal.Inc()
		s.log.Warn().Err(err).
			Str("event_type", event.EventType).
			Str("subject_id", event.SubjectID).
			Msg("failed to append security event")
		return
	}
	metrics.EventsAppendedTotal.WithLabelValues(event.EventType).Inc()
}
