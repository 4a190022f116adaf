package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
)

func (h *Handler) CreateRequest(c echo.Context) error {
	principal, err := h.principalFor(c, auth.OpRequestCreate)
	if err != nil {
		return err
	}

	var req model.CreateBookRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.requestSvc.CreateRequest(c.Request().Context(), principal.UserID, req.BookID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusCreated, request)
}

func (h *Handler) PendingRequests(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpRequestList); err != nil {
		return err
	}

	requests, err := h.requestSvc.PendingRequests(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) ResolveRequest(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpRequestResolve); err != nil {
		return err
	}

	requestID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request id")
	}

	var req model.ResolveRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	request, err := h.requestSvc.ResolveRequest(c.Request().Context(), requestID, req.Status)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, request)
}
