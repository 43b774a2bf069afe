package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/inkmatch/trust-core/internal/core/ports"
)

// ObjectHandler receives raw object-storage "file finalized" notifications.
type ObjectHandler struct {
	intake ports.ObjectIntakeService
}

func NewObjectHandler(intake ports.ObjectIntakeService) *ObjectHandler {
	return &ObjectHandler{intake: intake}
}

// Finalized handles POST /v1/objects/finalized. It screens the object against
// the upload policy. Rejections surface as 422 with the coarse reason; the
// suspicious-upload event has already been recorded by then.
func (h *ObjectHandler) Finalized(c echo.Context) error {
	var req objectFinalizedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.intake.ScreenObject(c.Request().Context(), ports.ObjectEventInput{
		Name:        req.Name,
		Size:        req.Size,
		ContentType: req.ContentType,
	}); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, statusResponse{Status: "accepted"})
}
