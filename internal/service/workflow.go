package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

// RequestService runs the member-initiated request pipeline:
// pending -> approved | rejected. Approval never reserves inventory; issuance
// stays a separate librarian action.
type RequestService struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewRequestService(repo repository.Repository, log *zap.Logger) *RequestService {
	return &RequestService{
		log:  log,
		repo: repo,
	}
}

func (s *RequestService) CreateRequest(ctx context.Context, memberID, bookID int) (model.BookRequest, error) {
	return s.repo.CreateRequest(ctx, memberID, bookID)
}

func (s *RequestService) PendingRequests(ctx context.Context) ([]model.PendingRequest, error) {
	return s.repo.PendingRequests(ctx)
}

func (s *RequestService) ResolveRequest(ctx context.Context, requestID int, status model.RequestStatus) (model.BookRequest, error) {
	return s.repo.ResolveRequest(ctx, requestID, status)
}
