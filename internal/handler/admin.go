package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libhub/library-service/pkg/auth"
)

func (h *Handler) Dashboard(c echo.Context) error {
	principal, err := h.principalFor(c, auth.OpDashboard)
	if err != nil {
		return err
	}

	dash, err := h.statsSvc.Dashboard(c.Request().Context(), principal.UserID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, dash)
}
