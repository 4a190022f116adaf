package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/pkg/auth"
	mw "github.com/libhub/library-service/pkg/middleware"
	"github.com/libhub/library-service/pkg/validate"
)

type Handler struct {
	inventorySvc    InventoryService
	requestSvc      RequestService
	loanSvc         LoanService
	fineSvc         FineService
	authSvc         AuthService
	notificationSvc NotificationService
	statsSvc        StatsService
	activityLog     ActivityLog
	authCfg         auth.Config
	log             *zap.Logger
}

type Services struct {
	Inventory    InventoryService
	Requests     RequestService
	Loans        LoanService
	Fines        FineService
	Auth         AuthService
	Notification NotificationService
	Stats        StatsService
}

func New(svcs Services, activityLog ActivityLog, authCfg auth.Config, log *zap.Logger) *Handler {
	return &Handler{
		inventorySvc:    svcs.Inventory,
		requestSvc:      svcs.Requests,
		loanSvc:         svcs.Loans,
		fineSvc:         svcs.Fines,
		authSvc:         svcs.Auth,
		notificationSvc: svcs.Notification,
		statsSvc:        svcs.Stats,
		activityLog:     activityLog,
		authCfg:         authCfg,
		log:             log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		mw.NewRateLimiter(apiRPS),
	)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	api.GET("/books", h.ListBooks)
	api.GET("/books/available", h.ListAvailableBooks)
	api.GET("/books/count", h.CountBooks)

	protected := api.Group("", mw.JwtAuthentication(h.authCfg))

	protected.POST("/books", h.AddBook)

	protected.POST("/requests", h.CreateRequest)
	protected.GET("/requests", h.PendingRequests)
	protected.PUT("/requests/:id", h.ResolveRequest)

	protected.GET("/loans", h.ListLoans)
	protected.POST("/loans", h.IssueLoan)
	protected.PUT("/loans/:id/return", h.ReturnLoan)
	protected.GET("/loans/borrowed-count", h.BorrowedCount)
	protected.GET("/loans/overdue-count", h.OverdueCount)
	protected.GET("/my-books", h.MyBooks)

	protected.GET("/payments", h.ListPayments)
	protected.GET("/payments/member/:id", h.MemberPayments)
	protected.POST("/payments", h.RecordPayment)
	protected.GET("/members/:id/fines", h.MemberFines)

	protected.GET("/admin/dashboard-stats", h.Dashboard)

	protected.GET("/notifications", h.ListNotifications)
	protected.PUT("/notifications/:id/read", h.MarkNotificationRead)
	protected.GET("/notifications/unread/count", h.UnreadCount)

	protected.GET("/users", h.ListUsers)
	protected.POST("/users", h.CreateUser)
	protected.DELETE("/users/:id", h.DeleteUser)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// principalFor authorizes op against the policy table for the authenticated
// principal.
func (h *Handler) principalFor(c echo.Context, op auth.Op) (auth.Principal, error) {
	principal, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if !auth.Allowed(op, principal) {
		return auth.Principal{}, echo.NewHTTPError(http.StatusForbidden, errs.ErrForbidden.Error())
	}
	return principal, nil
}

// principalForOwner is principalFor with the ownership predicate: the owning
// member passes even without a privileged role.
func (h *Handler) principalForOwner(c echo.Context, op auth.Op, ownerID int) (auth.Principal, error) {
	principal, err := auth.FromContext(c.Request().Context())
	if err != nil {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if !auth.AllowedFor(op, principal, ownerID) {
		return auth.Principal{}, echo.NewHTTPError(http.StatusForbidden, errs.ErrForbidden.Error())
	}
	return principal, nil
}

// domainError maps domain errors onto HTTP status codes. Integrity breaches
// are logged distinctly and surface as a generic server fault.
func (h *Handler) domainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errs.IsConflict(err):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrIntegrity):
		h.log.Error("integrity violation", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
