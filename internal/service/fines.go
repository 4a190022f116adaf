package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

// FinePolicy is the injected settlement policy: rate per overdue day past the
// grace period.
type FinePolicy struct {
	RatePerDay float64 `envconfig:"FINE_PER_DAY" default:"10"`
	GraceDays  int     `envconfig:"FINE_GRACE_DAYS" default:"0"`
}

// ComputeFine is a pure function of the loan and the evaluation time. A paid
// loan owes nothing regardless of elapsed time; fines are never negative.
func ComputeFine(loan model.IssuedBook, now time.Time, policy FinePolicy) float64 {
	if loan.FinePaid {
		return 0
	}
	end := now
	if loan.ReturnDate.Valid {
		end = loan.ReturnDate.Time
	}
	days := daysBetween(loan.DueDate, end) - policy.GraceDays
	if days <= 0 {
		return 0
	}
	return float64(days) * policy.RatePerDay
}

func daysBetween(from, to time.Time) int {
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// FineService settles overdue fines and payments.
type FineService struct {
	log    *zap.Logger
	repo   repository.Repository
	policy FinePolicy
	now    func() time.Time
}

func NewFineService(repo repository.Repository, policy FinePolicy, log *zap.Logger) *FineService {
	return &FineService{
		log:    log,
		repo:   repo,
		policy: policy,
		now:    time.Now,
	}
}

func (s *FineService) RecordPayment(ctx context.Context, req model.RecordPaymentRequest, processedBy int) (model.Payment, error) {
	return s.repo.CreatePayment(ctx, req, processedBy)
}

func (s *FineService) ListPayments(ctx context.Context) ([]model.PaymentInfo, error) {
	return s.repo.ListPayments(ctx)
}

func (s *FineService) MemberPayments(ctx context.Context, memberID int) ([]model.PaymentInfo, error) {
	return s.repo.MemberPayments(ctx, memberID)
}

// MemberFines lists the outstanding fine per unpaid overdue loan, open or
// already returned.
func (s *FineService) MemberFines(ctx context.Context, memberID int) (model.MemberFines, error) {
	loans, err := s.repo.MemberUnpaidOverdueLoans(ctx, memberID)
	if err != nil {
		return model.MemberFines{}, err
	}

	now := s.now()
	fines := make([]model.OutstandingFine, 0, len(loans))
	var total float64
	for _, loan := range loans {
		amount := ComputeFine(loan.IssuedBook, now, s.policy)
		if amount <= 0 {
			continue
		}
		fines = append(fines, model.OutstandingFine{
			IssuedBookID: loan.ID,
			BookID:       loan.BookID,
			Title:        loan.Title,
			Author:       loan.Author,
			DueDate:      loan.DueDate,
			Amount:       amount,
		})
		total += amount
	}
	return model.MemberFines{Fines: fines, TotalFine: total}, nil
}
