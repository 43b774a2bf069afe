package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

const defaultAlertListLimit = 100

// AlertHandler is the operator surface over detector alerts. The detector
// only creates alerts; status moves through here.
type AlertHandler struct {
	alerts ports.AlertRepository
}

func NewAlertHandler(alerts ports.AlertRepository) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// List handles GET /v1/alerts?status=&limit=, newest first.
func (h *AlertHandler) List(c echo.Context) error {
	status := domain.AlertStatus(c.QueryParam("status"))
	switch status {
	case "", domain.AlertActive, domain.AlertAcknowledged, domain.AlertResolved:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown alert status")
	}

	limit := int64(defaultAlertListLimit)
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		if parsed < limit {
			limit = parsed
		}
	}

	alerts, err := h.alerts.List(c.Request().Context(), status, limit)
	if err != nil {
		return err
	}
	if alerts == nil {
		alerts = []*domain.SecurityAlert{}
	}
	return c.JSON(http.StatusOK, map[string]any{"alerts": alerts})
}

// UpdateStatus handles PATCH /v1/alerts/:id/status and enforces the
// active to acknowledged to resolved lifecycle.
func (h *AlertHandler) UpdateStatus(c echo.Context) error {
	var req alertStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	ctx := c.Request().Context()
	alert, err := h.alerts.FindByID(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	next := domain.AlertStatus(req.Status)
	if !alert.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidAlertTransition, alert.Status, next)
	}

	if err := h.alerts.UpdateStatus(ctx, alert.ID, next); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Status: string(next)})
}
