package model

import (
	"database/sql"
	"time"

	"github.com/libhub/library-service/pkg/auth"
)

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

type LoanStatus string

const (
	LoanIssued   LoanStatus = "issued"
	LoanReturned LoanStatus = "returned"
	// LoanOverdue is query-time classification over open loans, never stored.
	LoanOverdue LoanStatus = "overdue"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         auth.Role `json:"role" db:"role"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Book struct {
	ID              int    `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	ISBN            string `json:"isbn" db:"isbn"`
	Category        string `json:"category" db:"category"`
	RackNo          string `json:"rackNo" db:"rack_no"`
	TotalCopies     int    `json:"totalCopies" db:"total_copies"`
	AvailableCopies int    `json:"availableCopies" db:"available_copies"`
}

type BookRequest struct {
	ID          int           `json:"id" db:"id"`
	RequestUid  string        `json:"requestUid" db:"request_uid"`
	BookID      int           `json:"bookId" db:"book_id"`
	MemberID    int           `json:"memberId" db:"member_id"`
	Status      RequestStatus `json:"status" db:"status"`
	RequestDate time.Time     `json:"requestDate" db:"request_date"`
}

// PendingRequest is a BookRequest joined with book/member display fields.
type PendingRequest struct {
	BookRequest
	Title       string `json:"title" db:"title"`
	Author      string `json:"author" db:"author"`
	MemberName  string `json:"memberName" db:"member_name"`
	MemberEmail string `json:"memberEmail" db:"member_email"`
}

type IssuedBook struct {
	ID          int          `json:"id" db:"id"`
	LoanUid     string       `json:"loanUid" db:"loan_uid"`
	BookID      int          `json:"bookId" db:"book_id"`
	MemberID    int          `json:"memberId" db:"member_id"`
	IssueDate   time.Time    `json:"issueDate" db:"issue_date"`
	DueDate     time.Time    `json:"dueDate" db:"due_date"`
	ReturnDate  sql.NullTime `json:"returnDate" db:"return_date"`
	Status      LoanStatus   `json:"status" db:"status"`
	FinePaid    bool         `json:"finePaid" db:"fine_paid"`
	PaymentDate sql.NullTime `json:"paymentDate" db:"payment_date"`
}

// Loan is an IssuedBook joined with book/member display fields.
type Loan struct {
	IssuedBook
	Title      string `json:"title" db:"title"`
	Author     string `json:"author" db:"author"`
	MemberName string `json:"memberName" db:"member_name"`
}

// MemberLoan is a member-facing loan with the current outstanding fine.
type MemberLoan struct {
	IssuedBook
	Title    string  `json:"title" db:"title"`
	Author   string  `json:"author" db:"author"`
	ISBN     string  `json:"isbn" db:"isbn"`
	Category string  `json:"category" db:"category"`
	Fine     float64 `json:"fine" db:"-"`
}

type Payment struct {
	ID            int       `json:"id" db:"id"`
	PaymentUid    string    `json:"paymentUid" db:"payment_uid"`
	Amount        float64   `json:"amount" db:"amount"`
	MemberID      int       `json:"memberId" db:"member_id"`
	IssuedBookID  int       `json:"issuedBookId" db:"issued_book_id"`
	ProcessedBy   int       `json:"processedBy" db:"processed_by"`
	PaymentDate   time.Time `json:"paymentDate" db:"payment_date"`
	Description   string    `json:"description" db:"description"`
	PaymentMethod string    `json:"paymentMethod" db:"payment_method"`
}

// PaymentInfo is a Payment joined with display names.
type PaymentInfo struct {
	Payment
	MemberName      string         `json:"memberName" db:"member_name"`
	ProcessedByName sql.NullString `json:"processedByName" db:"processed_by_name"`
}

type Notification struct {
	ID          int            `json:"id" db:"id"`
	UserID      sql.NullInt64  `json:"userId" db:"user_id"`
	Message     string         `json:"message" db:"message"`
	Type        string         `json:"type" db:"type"`
	RelatedID   sql.NullInt64  `json:"relatedId" db:"related_id"`
	RelatedType sql.NullString `json:"relatedType" db:"related_type"`
	IsRead      bool           `json:"isRead" db:"is_read"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

type Activity struct {
	ID        int           `json:"id" db:"id"`
	EventType string        `json:"type" db:"event_type"`
	Message   string        `json:"message" db:"message"`
	ActorID   sql.NullInt64 `json:"actorId" db:"actor_id"`
	RelatedID sql.NullInt64 `json:"relatedId" db:"related_id"`
	CreatedAt time.Time     `json:"timestamp" db:"created_at"`
}

// OutstandingFine is one unpaid fine owed on an overdue loan.
type OutstandingFine struct {
	IssuedBookID int       `json:"issuedBookId"`
	BookID       int       `json:"bookId"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	DueDate      time.Time `json:"dueDate"`
	Amount       float64   `json:"amount"`
}

type MemberFines struct {
	Fines     []OutstandingFine `json:"fines"`
	TotalFine float64           `json:"totalFine"`
}

type DashboardStats struct {
	TotalBooks       int `json:"totalBooks"`
	TotalUsers       int `json:"totalUsers"`
	TotalBorrowed    int `json:"totalBorrowed"`
	OverdueBooks     int `json:"overdueBooks"`
	AvailabilityRate int `json:"availabilityRate"`
}

type Dashboard struct {
	Stats          DashboardStats `json:"stats"`
	RecentActivity []Activity     `json:"recentActivity"`
	Notifications  []Notification `json:"notifications"`
}
