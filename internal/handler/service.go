package handler

import (
	"context"
	"time"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type InventoryService interface {
	AddBook(ctx context.Context, req model.AddBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID int) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListAvailableBooks(ctx context.Context) ([]model.Book, error)
	CountBooks(ctx context.Context) (int, error)
}

type RequestService interface {
	CreateRequest(ctx context.Context, memberID, bookID int) (model.BookRequest, error)
	PendingRequests(ctx context.Context) ([]model.PendingRequest, error)
	ResolveRequest(ctx context.Context, requestID int, status model.RequestStatus) (model.BookRequest, error)
}

type LoanService interface {
	Issue(ctx context.Context, bookID, memberID int, dueDate time.Time) (model.IssuedBook, error)
	Return(ctx context.Context, loanID int) (model.IssuedBook, error)
	ListLoans(ctx context.Context) ([]model.Loan, error)
	MemberLoans(ctx context.Context, memberID int) ([]model.MemberLoan, error)
	BorrowedCount(ctx context.Context) (int, error)
	OverdueCount(ctx context.Context) (int, error)
}

type FineService interface {
	RecordPayment(ctx context.Context, req model.RecordPaymentRequest, processedBy int) (model.Payment, error)
	ListPayments(ctx context.Context) ([]model.PaymentInfo, error)
	MemberPayments(ctx context.Context, memberID int) ([]model.PaymentInfo, error)
	MemberFines(ctx context.Context, memberID int) (model.MemberFines, error)
}

type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	CreateUser(ctx context.Context, req model.CreateUserRequest) (model.User, error)
	ListUsers(ctx context.Context, role string) ([]model.User, error)
	DeleteUser(ctx context.Context, userID int) error
}

type NotificationService interface {
	ListByUser(ctx context.Context, userID int) ([]model.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID int) error
	UnreadCount(ctx context.Context, userID int) (int, error)
}

type StatsService interface {
	Dashboard(ctx context.Context, adminID int) (model.Dashboard, error)
}

var (
	_ InventoryService    = (*service.InventoryService)(nil)
	_ RequestService      = (*service.RequestService)(nil)
	_ LoanService         = (*service.LoanService)(nil)
	_ FineService         = (*service.FineService)(nil)
	_ AuthService         = (*service.AuthService)(nil)
	_ NotificationService = (*service.NotificationService)(nil)
	_ StatsService        = (*service.StatsService)(nil)
)
