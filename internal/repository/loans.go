package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
)

// IssueBook inserts the loan row and reserves a copy as one unit of work.
func (r *repository) IssueBook(ctx context.Context, bookID, memberID int, dueDate time.Time) (model.IssuedBook, error) {
	var loan model.IssuedBook
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var isMember bool
		if err := tx.QueryRowContext(ctx,
			`select exists(select 1 from users where id = $1 and role = $2)`,
			memberID, auth.RoleMember).Scan(&isMember); err != nil {
			return err
		}
		if !isMember {
			return errs.ErrNotFound
		}

		q, args, err := qb.Insert(issuedBooksTableName).
			Columns("loan_uid", "book_id", "member_id", "due_date", "status").
			Values(uuid.New(), bookID, memberID, dueDate.Format(time.DateOnly), model.LoanIssued).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &loan, q, args...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgerrcode.UniqueViolation:
					return errs.ErrAlreadyIssued
				case pgerrcode.ForeignKeyViolation:
					return errs.ErrNotFound
				}
			}
			r.log.Error("IssueBook", zap.String("q", q), zap.Any("args", args))
			return err
		}

		return reserveCopy(ctx, tx, bookID)
	})
	if err != nil {
		return model.IssuedBook{}, err
	}
	return loan, nil
}

// ReturnBook closes the loan and releases the copy as one unit of work. A
// second return on the same id finds no open row and is rejected.
func (r *repository) ReturnBook(ctx context.Context, loanID int) (model.IssuedBook, error) {
	var loan model.IssuedBook
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q := `update issued_books
		set return_date = now(), status = $1
		where id = $2 and return_date is null
		returning *`
		if err := tx.GetContext(ctx, &loan, q, model.LoanReturned, loanID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}

		return releaseCopy(ctx, tx, loan.BookID)
	})
	if err != nil {
		return model.IssuedBook{}, err
	}
	return loan, nil
}

func (r *repository) GetLoan(ctx context.Context, loanID int) (model.IssuedBook, error) {
	q, args, err := qb.Select("*").
		From(issuedBooksTableName).
		Where(sq.Eq{"id": loanID}).
		ToSql()
	if err != nil {
		return model.IssuedBook{}, err
	}

	var loan model.IssuedBook
	if err := r.db.GetContext(ctx, &loan, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.IssuedBook{}, errs.ErrNotFound
		}
		return model.IssuedBook{}, err
	}
	return loan, nil
}

func (r *repository) ListLoans(ctx context.Context) ([]model.Loan, error) {
	q, args, err := qb.Select("ib.*", "b.title", "b.author", "u.name as member_name").
		From(issuedBooksTableName + " ib").
		Join(booksTableName + " b on b.id = ib.book_id").
		Join(usersTableName + " u on u.id = ib.member_id").
		OrderBy("ib.issue_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	loans := make([]model.Loan, 0)
	if err := r.db.SelectContext(ctx, &loans, q, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) MemberLoans(ctx context.Context, memberID int) ([]model.MemberLoan, error) {
	q, args, err := qb.Select("ib.*", "b.title", "b.author", "b.isbn", "b.category").
		From(issuedBooksTableName + " ib").
		Join(booksTableName + " b on b.id = ib.book_id").
		Where(sq.Eq{"ib.member_id": memberID}).
		OrderBy("ib.issue_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	loans := make([]model.MemberLoan, 0)
	if err := r.db.SelectContext(ctx, &loans, q, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

// MemberUnpaidOverdueLoans lists the member's loans with an unsettled fine: an
// open loan past due, or a loan returned after due and not yet paid. A late
// return does not forgive the fine.
func (r *repository) MemberUnpaidOverdueLoans(ctx context.Context, memberID int) ([]model.MemberLoan, error) {
	q, args, err := qb.Select("ib.*", "b.title", "b.author", "b.isbn", "b.category").
		From(issuedBooksTableName + " ib").
		Join(booksTableName + " b on b.id = ib.book_id").
		Where(sq.Eq{"ib.member_id": memberID, "ib.fine_paid": false}).
		Where("coalesce(ib.return_date::date, current_date) > ib.due_date").
		OrderBy("ib.due_date").
		ToSql()
	if err != nil {
		return nil, err
	}

	loans := make([]model.MemberLoan, 0)
	if err := r.db.SelectContext(ctx, &loans, q, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) BorrowedCount(ctx context.Context) (int, error) {
	q := `select count(*) from issued_books where return_date is null`
	var count int
	if err := r.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) OverdueCount(ctx context.Context) (int, error) {
	q := `select count(*) from issued_books
	where return_date is null and due_date < current_date`
	var count int
	if err := r.db.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
