package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

// LoanService owns the issue/return state machine. Overdue is never stored;
// it is classified at query time from due_date and return_date.
type LoanService struct {
	log    *zap.Logger
	repo   repository.Repository
	policy FinePolicy
	now    func() time.Time
}

func NewLoanService(repo repository.Repository, policy FinePolicy, log *zap.Logger) *LoanService {
	return &LoanService{
		log:    log,
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

func (s *LoanService) Issue(ctx context.Context, bookID, memberID int, dueDate time.Time) (model.IssuedBook, error) {
	return s.repo.IssueBook(ctx, bookID, memberID, dueDate)
}

func (s *LoanService) Return(ctx context.Context, loanID int) (model.IssuedBook, error) {
	return s.repo.ReturnBook(ctx, loanID)
}

func (s *LoanService) ListLoans(ctx context.Context) ([]model.Loan, error) {
	loans, err := s.repo.ListLoans(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range loans {
		loans[i].Status = classify(loans[i].IssuedBook, now)
	}
	return loans, nil
}

// MemberLoans returns the member's loans with derived status and the current
// outstanding fine per loan.
func (s *LoanService) MemberLoans(ctx context.Context, memberID int) ([]model.MemberLoan, error) {
	loans, err := s.repo.MemberLoans(ctx, memberID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range loans {
		loans[i].Status = classify(loans[i].IssuedBook, now)
		loans[i].Fine = ComputeFine(loans[i].IssuedBook, now, s.policy)
	}
	return loans, nil
}

func (s *LoanService) BorrowedCount(ctx context.Context) (int, error) {
	return s.repo.BorrowedCount(ctx)
}

func (s *LoanService) OverdueCount(ctx context.Context) (int, error) {
	return s.repo.OverdueCount(ctx)
}

func classify(loan model.IssuedBook, now time.Time) model.LoanStatus {
	if loan.ReturnDate.Valid {
		return model.LoanReturned
	}
	if daysBetween(loan.DueDate, now) > 0 {
		return model.LoanOverdue
	}
	return model.LoanIssued
}
