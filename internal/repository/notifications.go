package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/libhub/library-service/internal/model"
)

func (r *repository) NotificationsByUser(ctx context.Context, userID int) ([]model.Notification, error) {
	q, args, err := qb.Select("*").
		From(notificationsTableName).
		Where(sq.Or{sq.Eq{"user_id": userID}, sq.Eq{"user_id": nil}}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	notifications := make([]model.Notification, 0)
	if err := r.db.SelectContext(ctx, &notifications, q, args...); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repository) MarkNotificationRead(ctx context.Context, notificationID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`update notifications set is_read = true where id = $1 and user_id = $2`,
		notificationID, userID)
	return err
}

func (r *repository) UnreadCount(ctx context.Context, userID int) (int, error) {
	q := `select count(*) from notifications where user_id = $1 and is_read = false`
	var count int
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
