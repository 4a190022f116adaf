package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

func TestComputeFine(t *testing.T) {
	t.Parallel()
	dueDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	policy := FinePolicy{RatePerDay: 10}

	returned := func(ts time.Time) sql.NullTime {
		return sql.NullTime{Time: ts, Valid: true}
	}

	var tests = []struct {
		name   string
		loan   model.IssuedBook
		now    time.Time
		policy FinePolicy
		want   float64
	}{
		{
			name:   "not due yet",
			loan:   model.IssuedBook{DueDate: dueDate},
			now:    time.Date(2026, 9, 5, 12, 0, 0, 0, time.UTC),
			policy: policy,
			want:   0,
		},
		{
			name:   "due today owes nothing",
			loan:   model.IssuedBook{DueDate: dueDate},
			now:    time.Date(2026, 9, 10, 23, 59, 0, 0, time.UTC),
			policy: policy,
			want:   0,
		},
		{
			name:   "five days late",
			loan:   model.IssuedBook{DueDate: dueDate},
			now:    time.Date(2026, 9, 15, 8, 0, 0, 0, time.UTC),
			policy: policy,
			want:   50,
		},
		{
			name:   "grace period swallows the overrun",
			loan:   model.IssuedBook{DueDate: dueDate},
			now:    time.Date(2026, 9, 12, 8, 0, 0, 0, time.UTC),
			policy: FinePolicy{RatePerDay: 10, GraceDays: 3},
			want:   0,
		},
		{
			name:   "grace period only shifts the start",
			loan:   model.IssuedBook{DueDate: dueDate},
			now:    time.Date(2026, 9, 20, 8, 0, 0, 0, time.UTC),
			policy: FinePolicy{RatePerDay: 10, GraceDays: 3},
			want:   70,
		},
		{
			name:   "returned late freezes the fine",
			loan:   model.IssuedBook{DueDate: dueDate, ReturnDate: returned(time.Date(2026, 9, 13, 16, 0, 0, 0, time.UTC))},
			now:    time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			policy: policy,
			want:   30,
		},
		{
			name:   "returned on time",
			loan:   model.IssuedBook{DueDate: dueDate, ReturnDate: returned(time.Date(2026, 9, 9, 16, 0, 0, 0, time.UTC))},
			now:    time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			policy: policy,
			want:   0,
		},
		{
			name:   "paid loan owes nothing",
			loan:   model.IssuedBook{DueDate: dueDate, FinePaid: true},
			now:    time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			policy: policy,
			want:   0,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, ComputeFine(tt.loan, tt.now, tt.policy))
		})
	}
}

type finesRepo struct {
	repository.Repository
	loans []model.MemberLoan
}

func (r *finesRepo) MemberUnpaidOverdueLoans(_ context.Context, _ int) ([]model.MemberLoan, error) {
	return r.loans, nil
}

func TestFineService_MemberFines(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)
	repo := &finesRepo{loans: []model.MemberLoan{
		{
			IssuedBook: model.IssuedBook{ID: 11, BookID: 3, DueDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)},
			Title:      "The Go Programming Language",
			Author:     "Donovan, Kernighan",
		},
		{
			// returned four days late, fine frozen at return and still owed
			IssuedBook: model.IssuedBook{
				ID:         12,
				BookID:     4,
				DueDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
				ReturnDate: sql.NullTime{Time: time.Date(2026, 9, 5, 16, 0, 0, 0, time.UTC), Valid: true},
			},
			Title:  "The C Programming Language",
			Author: "Kernighan, Ritchie",
		},
		{
			// open but not yet due, no fine expected
			IssuedBook: model.IssuedBook{ID: 13, BookID: 5, DueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
			Title:      "The Practice of Programming",
			Author:     "Kernighan, Pike",
		},
	}}

	svc := NewFineService(repo, FinePolicy{RatePerDay: 10}, zap.NewExample().Named("test"))
	svc.now = func() time.Time { return now }

	fines, err := svc.MemberFines(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, fines.Fines, 2)
	require.Equal(t, 11, fines.Fines[0].IssuedBookID)
	require.Equal(t, 50.0, fines.Fines[0].Amount)
	require.Equal(t, 12, fines.Fines[1].IssuedBookID)
	require.Equal(t, 40.0, fines.Fines[1].Amount)
	require.Equal(t, 90.0, fines.TotalFine)
}
