package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
)

func (r *repository) AddBook(ctx context.Context, req model.AddBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "isbn", "category", "rack_no", "total_copies", "available_copies").
		Values(req.Title, req.Author, req.ISBN, req.Category, req.RackNo, req.TotalCopies, req.TotalCopies).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.Book{}, errs.ErrDuplicateISBN
		}
		r.log.Error("AddBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) GetBook(ctx context.Context, bookID int) (model.Book, error) {
	q, args, err := qb.Select("*").
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	q, args, err := qb.Select("*").
		From(booksTableName).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) ListAvailableBooks(ctx context.Context) ([]model.Book, error) {
	q, args, err := qb.Select("*").
		From(booksTableName).
		Where(sq.Gt{"available_copies": 0}).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, err
	}

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, q, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) CountBooks(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `select count(*) from books`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// reserveCopy is the atomic check-and-decrement backing an issuance. The
// conditional update makes concurrent reservations on the last copy a
// single-winner race at the row level.
func reserveCopy(ctx context.Context, tx *sqlx.Tx, bookID int) error {
	res, err := tx.ExecContext(ctx,
		`update books set available_copies = available_copies - 1
		 where id = $1 and available_copies > 0`, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return classifyNoReserve(ctx, tx, bookID, errs.ErrOutOfStock)
	}
	return nil
}

// releaseCopy increments available_copies, clamped at total_copies. Zero rows
// on an existing book means a double-release upstream.
func releaseCopy(ctx context.Context, tx *sqlx.Tx, bookID int) error {
	res, err := tx.ExecContext(ctx,
		`update books set available_copies = available_copies + 1
		 where id = $1 and available_copies < total_copies`, bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return classifyNoReserve(ctx, tx, bookID, errs.ErrIntegrity)
	}
	return nil
}

// classifyNoReserve distinguishes a missing book from a failed condition.
func classifyNoReserve(ctx context.Context, tx *sqlx.Tx, bookID int, condErr error) error {
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`select exists(select 1 from books where id = $1)`, bookID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return errs.ErrNotFound
	}
	return condErr
}
