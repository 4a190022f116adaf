package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
	"github.com/libhub/library-service/pkg/kafka"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authSvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.domainError(err)
	}

	h.logActivity(kafka.EventActivity{
		EventType:   "user",
		Message:     fmt.Sprintf("New user registered: %s", user.Name),
		ActorID:     user.ID,
		RelatedID:   user.ID,
		RelatedType: "user",
	})

	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	resp, err := h.authSvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) ListUsers(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpUserList); err != nil {
		return err
	}

	users, err := h.authSvc.ListUsers(c.Request().Context(), c.QueryParam("role"))
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) CreateUser(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpUserCreate); err != nil {
		return err
	}

	var req model.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authSvc.CreateUser(c.Request().Context(), req)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpUserDelete); err != nil {
		return err
	}

	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.authSvc.DeleteUser(c.Request().Context(), userID); err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}
