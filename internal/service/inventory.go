package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/libhub/library-service/internal/model"
	"github.com/libhub/library-service/internal/repository"
)

// InventoryService owns the book catalog and copy-count invariants.
type InventoryService struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewInventoryService(repo repository.Repository, log *zap.Logger) *InventoryService {
	return &InventoryService{
		log:  log,
		repo: repo,
	}
}

func (s *InventoryService) AddBook(ctx context.Context, req model.AddBookRequest) (model.Book, error) {
	return s.repo.AddBook(ctx, req)
}

func (s *InventoryService) GetBook(ctx context.Context, bookID int) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *InventoryService) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *InventoryService) ListAvailableBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListAvailableBooks(ctx)
}

func (s *InventoryService) CountBooks(ctx context.Context) (int, error) {
	return s.repo.CountBooks(ctx)
}
