package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
)

func (h *Handler) ListNotifications(c echo.Context) error {
	principal, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	notifications, err := h.notificationSvc.ListByUser(c.Request().Context(), principal.UserID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, notifications)
}

func (h *Handler) MarkNotificationRead(c echo.Context) error {
	principal, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	notificationID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification id")
	}

	if err := h.notificationSvc.MarkRead(c.Request().Context(), notificationID, principal.UserID); err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "notification marked as read"})
}

func (h *Handler) UnreadCount(c echo.Context) error {
	principal, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}

	count, err := h.notificationSvc.UnreadCount(c.Request().Context(), principal.UserID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: count})
}
