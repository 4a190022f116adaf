package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
)

type Repository interface {
	// inventory
	AddBook(ctx context.Context, req model.AddBookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID int) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListAvailableBooks(ctx context.Context) ([]model.Book, error)
	CountBooks(ctx context.Context) (int, error)

	// requests
	CreateRequest(ctx context.Context, memberID, bookID int) (model.BookRequest, error)
	PendingRequests(ctx context.Context) ([]model.PendingRequest, error)
	ResolveRequest(ctx context.Context, requestID int, status model.RequestStatus) (model.BookRequest, error)

	// loans
	IssueBook(ctx context.Context, bookID, memberID int, dueDate time.Time) (model.IssuedBook, error)
	ReturnBook(ctx context.Context, loanID int) (model.IssuedBook, error)
	GetLoan(ctx context.Context, loanID int) (model.IssuedBook, error)
	ListLoans(ctx context.Context) ([]model.Loan, error)
	MemberLoans(ctx context.Context, memberID int) ([]model.MemberLoan, error)
	BorrowedCount(ctx context.Context) (int, error)
	OverdueCount(ctx context.Context) (int, error)

	// payments and fines
	CreatePayment(ctx context.Context, req model.RecordPaymentRequest, processedBy int) (model.Payment, error)
	ListPayments(ctx context.Context) ([]model.PaymentInfo, error)
	MemberPayments(ctx context.Context, memberID int) ([]model.PaymentInfo, error)
	MemberUnpaidOverdueLoans(ctx context.Context, memberID int) ([]model.MemberLoan, error)

	// notifications
	NotificationsByUser(ctx context.Context, userID int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID, userID int) error
	UnreadCount(ctx context.Context, userID int) (int, error)

	// users
	CreateUser(ctx context.Context, name, email, passwordHash string, role auth.Role) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUser(ctx context.Context, userID int) (model.User, error)
	ListUsers(ctx context.Context, role string) ([]model.User, error)
	DeleteUser(ctx context.Context, userID int) error

	// activity / dashboard
	InsertActivity(ctx context.Context, eventType, message string, actorID, relatedID int, ts time.Time) error
	RecentActivity(ctx context.Context, limit int) ([]model.Activity, error)
	CountUsers(ctx context.Context) (int, error)
	AvailabilityRate(ctx context.Context) (int, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName         = `users`
	booksTableName         = `books`
	bookRequestsTableName  = `book_requests`
	issuedBooksTableName   = `issued_books`
	paymentsTableName      = `payments`
	notificationsTableName = `notifications`
	activityTableName      = `activity`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withTx runs fn inside a transaction, rolling back on every non-nil return.
func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.log.Error("tx rollback", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit tx")
	}
	return nil
}
