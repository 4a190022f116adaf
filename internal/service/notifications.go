package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

type NotificationService struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewNotificationService(repo repository.Repository, log *zap.Logger) *NotificationService {
	return &NotificationService{
		log:  log,
		repo: repo,
	}
}

func (s *NotificationService) ListByUser(ctx context.Context, userID int) ([]model.Notification, error) {
	return s.repo.NotificationsByUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID int) error {
	return s.repo.MarkNotificationRead(ctx, notificationID, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int) (int, error) {
	return s.repo.UnreadCount(ctx, userID)
}
