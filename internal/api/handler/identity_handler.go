package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkmatch/trust-core/internal/api/metrics"
	"github.com/inkmatch/trust-core/internal/core/domain"
	"github.com/inkmatch/trust-core/internal/core/ports"
)

// IdentityHandler exposes the identity lifecycle triggers.
type IdentityHandler struct {
	identities ports.IdentityService
}

func NewIdentityHandler(identities ports.IdentityService) *IdentityHandler {
	return &IdentityHandler{identities: identities}
}

// Validate handles POST /v1/identities/validate, the "identity created"
// trigger. The identity document already exists upstream; a rejection here
// means it has been compensating-deleted.
func (h *IdentityHandler) Validate(c echo.Context) error {
	var req identityCreatedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.identities.ValidateAndRegister(c.Request().Context(), req.IdentityID, req.Email); err != nil {
		metrics.ValidationsTotal.WithLabelValues("register", registerOutcome(err)).Inc()
		return err
	}

	metrics.ValidationsTotal.WithLabelValues("register", "accepted").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "registered"})
}

// ChangeEmail handles POST /v1/identities/:id/email, the "email about to
// change" trigger.
func (h *IdentityHandler) ChangeEmail(c echo.Context) error {
	var req emailChangeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	identityID := c.Param("id")
	if identityID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing identity id")
	}

	if err := h.identities.ChangeEmail(c.Request().Context(), identityID, req.PreviousEmail, req.NewEmail); err != nil {
		metrics.ValidationsTotal.WithLabelValues("email_change", changeOutcome(err)).Inc()
		return err
	}

	metrics.ValidationsTotal.WithLabelValues("email_change", "accepted").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "changed"})
}

func registerOutcome(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return "rejected"
	}
	return "error"
}

func changeOutcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrRateLimited):
		return "rate_limited"
	default:
		return registerOutcome(err)
	}
}
