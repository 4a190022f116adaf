package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/pkg/auth"
)

func (r *repository) InsertActivity(ctx context.Context, eventType, message string, actorID, relatedID int, ts time.Time) error {
	q, args, err := qb.Insert(activityTableName).
		Columns("event_type", "message", "actor_id", "related_id", "created_at").
		Values(eventType, message, nullableID(actorID), nullableID(relatedID), ts).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

func nullableID(id int) interface{} {
	if id == 0 {
		return nil
	}
	return id
}

func (r *repository) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	q, args, err := qb.Select("*").
		From(activityTableName).
		OrderBy("created_at desc").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	activity := make([]model.Activity, 0)
	if err := r.db.SelectContext(ctx, &activity, q, args...); err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *repository) CountUsers(ctx context.Context) (int, error) {
	q, args, err := qb.Select("count(*)").
		From(usersTableName).
		Where(sq.Eq{"role": []auth.Role{auth.RoleLibrarian, auth.RoleMember}}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repository) AvailabilityRate(ctx context.Context) (int, error) {
	q := `select coalesce(sum(total_copies), 0), coalesce(sum(available_copies), 0) from books`
	var total, available int
	if err := r.db.QueryRowContext(ctx, q).Scan(&total, &available); err != nil {
		return 0, err
	}
	if total == 0 {
		return 100, nil
	}
	return int(float64(available)/float64(total)*100 + 0.5), nil
}
