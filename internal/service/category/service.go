package category

import (
	"context"

	"shop-api/internal/domain"
	"shop-api/internal/repository/category"
)

type Service struct {
	repo category.Repository
}

func New(repo category.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Upsert(ctx context.Context, name string) (*domain.Category, error) {
	return s.repo.Upsert(ctx, name)
}
