package model

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      User      `json:"user"`
}

type AddBookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	ISBN        string `json:"isbn" validate:"required"`
	Category    string `json:"category" validate:"required"`
	RackNo      string `json:"rack_no" validate:"required"`
	TotalCopies int    `json:"total_copies" validate:"required,min=1"`
}

type CreateBookRequestRequest struct {
	BookID int `json:"book_id" validate:"required"`
}

type ResolveRequestRequest struct {
	Status RequestStatus `json:"status" validate:"required,oneof=approved rejected"`
}

type IssueLoanRequest struct {
	BookID   int    `json:"book_id" validate:"required"`
	MemberID int    `json:"member_id" validate:"required"`
	DueDate  string `json:"due_date" validate:"required,datetime=2006-01-02"`
}

type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	MemberID      int     `json:"member_id" validate:"required"`
	IssuedBookID  int     `json:"issued_book_id" validate:"required"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"payment_method"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=librarian member"`
}

type CountResponse struct {
	Count int `json:"count"`
}
