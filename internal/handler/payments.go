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

func (h *Handler) ListPayments(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpPaymentList); err != nil {
		return err
	}

	payments, err := h.fineSvc.ListPayments(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) MemberPayments(c echo.Context) error {
	memberID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member id")
	}
	if _, err := h.principalForOwner(c, auth.OpPaymentByMember, memberID); err != nil {
		return err
	}

	payments, err := h.fineSvc.MemberPayments(c.Request().Context(), memberID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) RecordPayment(c echo.Context) error {
	var req model.RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	principal, err := h.principalForOwner(c, auth.OpPaymentCreate, req.MemberID)
	if err != nil {
		return err
	}

	payment, err := h.fineSvc.RecordPayment(c.Request().Context(), req, principal.UserID)
	if err != nil {
		return h.domainError(err)
	}

	h.logActivity(kafka.EventActivity{
		EventType:   "payment",
		Message:     fmt.Sprintf("Fine of $%.2f settled on loan %d", payment.Amount, payment.IssuedBookID),
		ActorID:     principal.UserID,
		RelatedID:   payment.ID,
		RelatedType: "payment",
	})

	return c.JSON(http.StatusCreated, payment)
}

func (h *Handler) MemberFines(c echo.Context) error {
	memberID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid member id")
	}
	if _, err := h.principalForOwner(c, auth.OpFinesView, memberID); err != nil {
		return err
	}

	fines, err := h.fineSvc.MemberFines(c.Request().Context(), memberID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, fines)
}
