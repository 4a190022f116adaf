package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/errs"
	"github.com/libhub/library-service/internal/model"
)

// CreatePayment settles a fine: the payment row, the fine_paid flip and the
// staff notification fan-out commit together or not at all.
func (r *repository) CreatePayment(ctx context.Context, req model.RecordPaymentRequest, processedBy int) (model.Payment, error) {
	var payment model.Payment
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var loanMemberID int
		if err := tx.QueryRowContext(ctx,
			`select member_id from issued_books where id = $1`, req.IssuedBookID).Scan(&loanMemberID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if loanMemberID != req.MemberID {
			return errs.ErrNotFound
		}

		// single-shot transition: an already-paid loan is a conflict
		res, err := tx.ExecContext(ctx,
			`update issued_books set fine_paid = true, payment_date = now()
			 where id = $1 and fine_paid = false`, req.IssuedBookID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return errs.ErrAlreadyPaid
		}

		method := req.PaymentMethod
		if method == "" {
			method = "cash"
		}
		q, args, err := qb.Insert(paymentsTableName).
			Columns("payment_uid", "amount", "member_id", "issued_book_id", "processed_by", "description", "payment_method").
			Values(uuid.New(), req.Amount, req.MemberID, req.IssuedBookID, processedBy, req.Description, method).
			Suffix("returning *").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, &payment, q, args...); err != nil {
			r.log.Error("CreatePayment", zap.String("q", q), zap.Any("args", args))
			return err
		}

		var memberName string
		if err := tx.QueryRowContext(ctx,
			`select name from users where id = $1`, req.MemberID).Scan(&memberName); err != nil {
			return err
		}
		message := fmt.Sprintf("Member %s paid fine of $%.2f", memberName, req.Amount)
		_, err = tx.ExecContext(ctx,
			`insert into notifications (user_id, message, type, related_id, related_type)
			 select id, $1, 'payment', $2, 'payment' from users where role in ('admin', 'librarian')`,
			message, payment.ID)
		return err
	})
	if err != nil {
		return model.Payment{}, err
	}
	return payment, nil
}

func (r *repository) ListPayments(ctx context.Context) ([]model.PaymentInfo, error) {
	q, args, err := qb.Select("p.*", "u.name as member_name", "u2.name as processed_by_name").
		From(paymentsTableName + " p").
		Join(usersTableName + " u on u.id = p.member_id").
		LeftJoin(usersTableName + " u2 on u2.id = p.processed_by").
		OrderBy("p.payment_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	payments := make([]model.PaymentInfo, 0)
	if err := r.db.SelectContext(ctx, &payments, q, args...); err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repository) MemberPayments(ctx context.Context, memberID int) ([]model.PaymentInfo, error) {
	q, args, err := qb.Select("p.*", "u.name as member_name", "u2.name as processed_by_name").
		From(paymentsTableName + " p").
		Join(usersTableName + " u on u.id = p.member_id").
		LeftJoin(usersTableName + " u2 on u2.id = p.processed_by").
		Where(sq.Eq{"p.member_id": memberID}).
		OrderBy("p.payment_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	payments := make([]model.PaymentInfo, 0)
	if err := r.db.SelectContext(ctx, &payments, q, args...); err != nil {
		return nil, err
	}
	return payments, nil
}
