package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
)

func (r *repository) CreateRequest(ctx context.Context, memberID, bookID int) (model.BookRequest, error) {
	var req model.BookRequest
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var available int
		if err := tx.QueryRowContext(ctx,
			`select available_copies from books where id = $1`, bookID).Scan(&available); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if available < 1 {
			return errs.ErrOutOfStock
		}

		var issued bool
		if err := tx.QueryRowContext(ctx,
			`select exists(select 1 from issued_books
			 where book_id = $1 and member_id = $2 and return_date is null)`,
			bookID, memberID).Scan(&issued); err != nil {
			return err
		}
		if issued {
			return errs.ErrAlreadyIssued
		}

		// the pending-unique partial index backstops the duplicate check
		q, args, err := qb.Insert(bookRequestsTableName).
			Columns("request_uid", "book_id", "member_id", "status").
			Values(uuid.New(), bookID, memberID, model.RequestPending).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &req, q, args...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
				return errs.ErrDuplicateRequest
			}
			r.log.Error("CreateRequest", zap.String("q", q), zap.Any("args", args))
			return err
		}
		return nil
	})
	if err != nil {
		return model.BookRequest{}, err
	}
	return req, nil
}

func (r *repository) PendingRequests(ctx context.Context) ([]model.PendingRequest, error) {
	q, args, err := qb.Select("br.id", "br.request_uid", "br.book_id", "br.member_id", "br.status", "br.request_date",
		"b.title", "b.author", "u.name as member_name", "u.email as member_email").
		From(bookRequestsTableName + " br").
		Join(booksTableName + " b on b.id = br.book_id").
		Join(usersTableName + " u on u.id = br.member_id").
		Where(sq.Eq{"br.status": model.RequestPending}).
		OrderBy("br.request_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	requests := make([]model.PendingRequest, 0)
	if err := r.db.SelectContext(ctx, &requests, q, args...); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *repository) ResolveRequest(ctx context.Context, requestID int, status model.RequestStatus) (model.BookRequest, error) {
	q := `update book_requests set status = $1
	where id = $2 and status = 'pending'
	returning *`

	var req model.BookRequest
	if err := r.db.GetContext(ctx, &req, q, status, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BookRequest{}, errs.ErrNotFound
		}
		return model.BookRequest{}, err
	}
	return req, nil
}
