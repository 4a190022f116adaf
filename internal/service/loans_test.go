package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

func TestClassify(t *testing.T) {
	t.Parallel()
	dueDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name string
		loan model.IssuedBook
		now  time.Time
		want model.LoanStatus
	}{
		{
			name: "open before due",
			loan: model.IssuedBook{DueDate: dueDate},
			now:  time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
			want: model.LoanIssued,
		},
		{
			name: "open on due date",
			loan: model.IssuedBook{DueDate: dueDate},
			now:  time.Date(2026, 9, 15, 23, 0, 0, 0, time.UTC),
			want: model.LoanIssued,
		},
		{
			name: "open past due",
			loan: model.IssuedBook{DueDate: dueDate},
			now:  time.Date(2026, 9, 16, 0, 30, 0, 0, time.UTC),
			want: model.LoanOverdue,
		},
		{
			name: "returned beats overdue",
			loan: model.IssuedBook{
				DueDate:    dueDate,
				ReturnDate: sql.NullTime{Time: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC), Valid: true},
			},
			now:  time.Date(2026, 9, 25, 0, 0, 0, 0, time.UTC),
			want: model.LoanReturned,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, classify(tt.loan, tt.now))
		})
	}
}

type memberLoansRepo struct {
	repository.Repository
	loans []model.MemberLoan
}

func (r *memberLoansRepo) MemberLoans(_ context.Context, _ int) ([]model.MemberLoan, error) {
	return r.loans, nil
}

func TestLoanService_MemberLoans(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 9, 20, 10, 0, 0, 0, time.UTC)
	repo := &memberLoansRepo{loans: []model.MemberLoan{
		{IssuedBook: model.IssuedBook{ID: 11, DueDate: time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)}},
		{IssuedBook: model.IssuedBook{ID: 12, DueDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}},
		{IssuedBook: model.IssuedBook{
			ID:         13,
			DueDate:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
			ReturnDate: sql.NullTime{Time: time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC), Valid: true},
		}},
	}}

	svc := NewLoanService(repo, FinePolicy{RatePerDay: 10}, zap.NewExample().Named("test"))
	svc.now = func() time.Time { return now }

	loans, err := svc.MemberLoans(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, loans, 3)

	require.Equal(t, model.LoanOverdue, loans[0].Status)
	require.Equal(t, 50.0, loans[0].Fine)

	require.Equal(t, model.LoanIssued, loans[1].Status)
	require.Equal(t, 0.0, loans[1].Fine)

	require.Equal(t, model.LoanReturned, loans[2].Status)
	require.Equal(t, 20.0, loans[2].Fine)
}

// issueRepo mimics the repository's atomic transitions: each issue or return
// runs under one lock, as it does under one transaction in Postgres.
type issueRepo struct {
	repository.Repository

	mu        sync.Mutex
	total     int
	available int
	nextID    int
	loans     map[int]model.IssuedBook
}

func newIssueRepo(copies int) *issueRepo {
	return &issueRepo{
		total:     copies,
		available: copies,
		loans:     map[int]model.IssuedBook{},
	}
}

func (r *issueRepo) IssueBook(_ context.Context, bookID, memberID int, dueDate time.Time) (model.IssuedBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.available == 0 {
		return model.IssuedBook{}, errs.ErrOutOfStock
	}
	r.available--
	r.nextID++
	loan := model.IssuedBook{
		ID:       r.nextID,
		BookID:   bookID,
		MemberID: memberID,
		DueDate:  dueDate,
		Status:   model.LoanIssued,
	}
	r.loans[loan.ID] = loan
	return loan, nil
}

func (r *issueRepo) ReturnBook(_ context.Context, loanID int) (model.IssuedBook, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loan, ok := r.loans[loanID]
	if !ok || loan.ReturnDate.Valid {
		return model.IssuedBook{}, errs.ErrNotFound
	}
	if r.available == r.total {
		return model.IssuedBook{}, errs.ErrIntegrity
	}
	loan.ReturnDate = sql.NullTime{Time: time.Now(), Valid: true}
	loan.Status = model.LoanReturned
	r.loans[loanID] = loan
	r.available++
	return loan, nil
}

func TestLoanService_Issue_LastCopyRace(t *testing.T) {
	t.Parallel()
	const workers = 16

	repo := newIssueRepo(1)
	svc := NewLoanService(repo, FinePolicy{}, zap.NewExample().Named("test"))
	dueDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	errCh := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(memberID int) {
			defer wg.Done()
			_, err := svc.Issue(context.Background(), 3, memberID, dueDate)
			errCh <- err
		}(i + 1)
	}
	wg.Wait()
	close(errCh)

	var issued, outOfStock int
	for err := range errCh {
		switch err {
		case nil:
			issued++
		case errs.ErrOutOfStock:
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, issued)
	require.Equal(t, workers-1, outOfStock)
	require.Equal(t, 0, repo.available)
}

func TestLoanService_IssueReturnRoundTrip(t *testing.T) {
	t.Parallel()
	repo := newIssueRepo(2)
	svc := NewLoanService(repo, FinePolicy{}, zap.NewExample().Named("test"))
	ctx := context.Background()
	dueDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	loanA, err := svc.Issue(ctx, 3, 1, dueDate)
	require.NoError(t, err)
	require.Equal(t, 1, repo.available)

	_, err = svc.Issue(ctx, 3, 2, dueDate)
	require.NoError(t, err)
	require.Equal(t, 0, repo.available)

	// both copies out, the third member is turned away
	_, err = svc.Issue(ctx, 3, 3, dueDate)
	require.ErrorIs(t, err, errs.ErrOutOfStock)

	returned, err := svc.Return(ctx, loanA.ID)
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, returned.Status)
	require.True(t, returned.ReturnDate.Valid)
	require.Equal(t, 1, repo.available)

	// a second return on the same loan is rejected and must not release again
	_, err = svc.Return(ctx, loanA.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Equal(t, 1, repo.available)

	_, err = svc.Issue(ctx, 3, 3, dueDate)
	require.NoError(t, err)
	require.Equal(t, 0, repo.available)
}
