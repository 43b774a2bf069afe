package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/inkmatch/trust-core/internal/api/metrics"
	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

// AccessHandler answers portfolio view checks and logs each outcome to the
// security event log.
type AccessHandler struct {
	authz    ports.AuthorizationService
	recorder ports.SecurityRecorder
}

func NewAccessHandler(authz ports.AuthorizationService, recorder ports.SecurityRecorder) *AccessHandler {
	return &AccessHandler{authz: authz, recorder: recorder}
}

// CheckPortfolioView handles POST /v1/access/portfolio-view. The response
// never distinguishes "not authorized" from "backend unavailable": a storage
// fault degrades to minimum privilege and is visible only in the operational
// log and metrics.
func (h *AccessHandler) CheckPortfolioView(c echo.Context) error {
	var req accessCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	allowed, err := h.authz.CanViewPortfolio(ctx, req.SubjectID, req.ArtistID)

	switch {
	case err != nil:
		metrics.AccessDecisionsTotal.WithLabelValues("error").Inc()
	case allowed:
		metrics.AccessDecisionsTotal.WithLabelValues("granted").Inc()
		h.recorder.Record(ctx, domain.SecurityEvent{
			EventType:   domain.EventPortfolioViewGranted,
			SubjectID:   req.SubjectID,
			TargetID:    req.ArtistID,
			ResourceRef: "portfolio:" + req.ArtistID,
			Severity:    domain.SeverityLow,
			Timestamp:   time.Now().UTC(),
		})
	default:
		metrics.AccessDecisionsTotal.WithLabelValues("denied").Inc()
		h.recorder.Record(ctx, domain.SecurityEvent{
			EventType:   domain.EventUnauthorizedAccess,
			SubjectID:   req.SubjectID,
			TargetID:    req.ArtistID,
			ResourceRef: "portfolio:" + req.ArtistID,
			Severity:    domain.SeverityMedium,
			Timestamp:   time.Now().UTC(),
		})
	}

	return c.JSON(http.StatusOK, accessCheckResponse{Allowed: allowed})
}
