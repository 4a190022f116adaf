package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
)

func (h *Handler) ListBooks(c echo.Context) error {
	books, err := h.inventorySvc.ListBooks(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) ListAvailableBooks(c echo.Context) error {
	books, err := h.inventorySvc.ListAvailableBooks(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) CountBooks(c echo.Context) error {
	count, err := h.inventorySvc.CountBooks(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: count})
}

func (h *Handler) AddBook(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpBookAdd); err != nil {
		return err
	}

	var req model.AddBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.inventorySvc.AddBook(c.Request().Context(), req)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusCreated, book)
}
