package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

const maxObjectSize = 25 << 20 // 25 MiB

// allowedContentTypes is the upload policy for portfolio objects.
var allowedContentTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"image/heic":      {},
	"application/pdf": {},
}

type objectIntake struct {
	recorder ports.SecurityRecorder
	log      zerolog.Logger
}

// NewObjectIntake screens object-storage finalize events against the upload
// policy. Rejections are logged as suspicious-upload security events.
func NewObjectIntake(recorder ports.SecurityRecorder, log zerolog.Logger) ports.ObjectIntakeService {
	return &objectIntake{recorder: recorder, log: log}
}

func (s *objectIntake) ScreenObject(ctx context.Context, in ports.ObjectEventInput) error {
	if reason := screenReason(in); reason != "" {
		s.recorder.Record(ctx, domain.SecurityEvent{
			EventType:   domain.EventSuspiciousUpload,
			ResourceRef: in.Name,
			Severity:    domain.SeverityMedium,
			Timestamp:   time.Now().UTC(),
			Metadata: map[string]string{
				"reason":       reason,
				"content_type": in.ContentType,
				"size":         fmt.Sprintf("%d", in.Size),
			},
		})
		s.log.Warn().Str("object", in.Name).Str("reason", reason).Msg("upload rejected")
		return domain.NewValidationError("upload rejected")
	}
	return nil
}

func screenReason(in ports.ObjectEventInput) string {
	if in.Name == "" {
		return "empty_name"
	}
	if strings.Contains(in.Name, "..") || strings.HasPrefix(in.Name, "/") {
		return "path_traversal"
	}
	if in.Size <= 0 || in.Size > maxObjectSize {
		return "size_out_of_bounds"
	}
	base := in.ContentType
	if i := strings.Index(base, ";"); i >= 0 {
		base = base[:i]
	}
	if _, ok := allowedContentTypes[strings.TrimSpace(strings.ToLower(base))]; !ok {
		return "content_type_not_allowed"
	}
	return ""
}
