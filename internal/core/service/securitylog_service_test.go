package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/inkmatch/trust-core/internal/core/domain"
)

func TestSecurityLog_RecordAppends(t *testing.T) {
	repo := &stubEventRepo{}
	log := NewSecurityLog(repo, zerolog.Nop())

	log.Record(context.Background(), domain.SecurityEvent{
		EventType: domain.EventUnauthorizedAccess,
		SubjectID: "subject-1",
		Severity:  domain.SeverityHigh,
	})

	if len(repo.events) != 1 {
		t.Fatalf("expected one appended event, got %d", len(repo.events))
	}
	if repo.events[0].Timestamp.IsZero() {
		t.Error("missing timestamp must be filled in")
	}
}

func TestSecurityLog_DefaultsSeverity(t *testing.T) {
	repo := &stubEventRepo{}
	log := NewSecurityLog(repo, zerolog.Nop())

	log.Record(context.Background(), domain.SecurityEvent{EventType: domain.EventEmailChanged})

	if repo.events[0].Severity != domain.SeverityLow {
		t.Errorf("severity = %q, want low default", repo.events[0].Severity)
	}
}

func TestSecurityLog_AppendFailureSwallowed(t *testing.T) {
	repo := &stubEventRepo{appendErr: errors.New("mongo down")}
	log := NewSecurityLog(repo, zerolog.Nop())

	// Must not panic or surface the error in any way.
	log.Record(context.Background(), domain.SecurityEvent{EventType: domain.EventEmailChanged})

	if len(repo.events) != 0 {
		t.Fatal("append should have failed")
	}
}
