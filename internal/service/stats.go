package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
	"github.com/libhub/library-service/pkg/kafka"
)

const recentActivityLimit = 10

type StatsService struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewStatsService(repo repository.Repository, log *zap.Logger) *StatsService {
	return &StatsService{
		log:  log,
		repo: repo,
	}
}

// RecordActivity persists one consumed activity event.
func (s *StatsService) RecordActivity(ctx context.Context, event kafka.EventActivity) error {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return s.repo.InsertActivity(ctx, event.EventType, event.Message, event.ActorID, event.RelatedID, ts)
}

// Dashboard gathers the admin aggregates; the independent counts fan out
// concurrently.
func (s *StatsService) Dashboard(ctx context.Context, adminID int) (model.Dashboard, error) {
	var (
		dash model.Dashboard
	)

	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() (err error) {
		dash.Stats.TotalBooks, err = s.repo.CountBooks(ctx)
		return err
	})
	gg.Go(func() (err error) {
		dash.Stats.TotalUsers, err = s.repo.CountUsers(ctx)
		return err
	})
	gg.Go(func() (err error) {
		dash.Stats.TotalBorrowed, err = s.repo.BorrowedCount(ctx)
		return err
	})
	gg.Go(func() (err error) {
		dash.Stats.OverdueBooks, err = s.repo.OverdueCount(ctx)
		return err
	})
	gg.Go(func() (err error) {
		dash.Stats.AvailabilityRate, err = s.repo.AvailabilityRate(ctx)
		return err
	})
	gg.Go(func() (err error) {
		dash.RecentActivity, err = s.repo.RecentActivity(ctx, recentActivityLimit)
		return err
	})
	gg.Go(func() (err error) {
		dash.Notifications, err = s.repo.NotificationsByUser(ctx, adminID)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	return dash, nil
}
