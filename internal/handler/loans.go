package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
	"github.com/libhub/library-service/pkg/kafka"
)

func (h *Handler) ListLoans(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpLoanList); err != nil {
		return err
	}

	loans, err := h.loanSvc.ListLoans(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) IssueLoan(c echo.Context) error {
	principal, err := h.principalFor(c, auth.OpLoanIssue)
	if err != nil {
		return err
	}

	var req model.IssueLoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	dueDate, err := time.Parse(time.DateOnly, req.DueDate)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid due_date")
	}

	loan, err := h.loanSvc.Issue(c.Request().Context(), req.BookID, req.MemberID, dueDate)
	if err != nil {
		return h.domainError(err)
	}

	h.logActivity(kafka.EventActivity{
		EventType:   "issue",
		Message:     fmt.Sprintf("Book %d issued to member %d", loan.BookID, loan.MemberID),
		ActorID:     principal.UserID,
		RelatedID:   loan.ID,
		RelatedType: "loan",
	})

	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	principal, err := h.principalFor(c, auth.OpLoanReturn)
	if err != nil {
		return err
	}

	loanID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid loan id")
	}

	loan, err := h.loanSvc.Return(c.Request().Context(), loanID)
	if err != nil {
		return h.domainError(err)
	}

	h.logActivity(kafka.EventActivity{
		EventType:   "return",
		Message:     fmt.Sprintf("Book %d returned by member %d", loan.BookID, loan.MemberID),
		ActorID:     principal.UserID,
		RelatedID:   loan.ID,
		RelatedType: "loan",
	})

	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) MyBooks(c echo.Context) error {
	principal, err := h.principalFor(c, auth.OpMyBooks)
	if err != nil {
		return err
	}

	loans, err := h.loanSvc.MemberLoans(c.Request().Context(), principal.UserID)
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) BorrowedCount(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpLoanCounts); err != nil {
		return err
	}

	count, err := h.loanSvc.BorrowedCount(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: count})
}

func (h *Handler) OverdueCount(c echo.Context) error {
	if _, err := h.principalFor(c, auth.OpLoanCounts); err != nil {
		return err
	}

	count, err := h.loanSvc.OverdueCount(c.Request().Context())
	if err != nil {
		return h.domainError(err)
	}
	return c.JSON(http.StatusOK, model.CountResponse{Count: count})
}
