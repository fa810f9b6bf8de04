package product

import (
	"context"
	"fmt"
	"strings"

	"shop-api/internal/domain"
	productrepo "shop-api/internal/repository/product"
)

type Service struct {
	repo productrepo.Repository
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	filter.Ordering = domain.ProductOrdering(strings.TrimSpace(string(filter.Ordering)))
	if !filter.Ordering.Valid() {
		return nil, fmt.Errorf("%w: ordering must be one of price, -price, name, -name", domain.ErrInvalidInput)
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Upsert is used by catalog loaders; there is no public write API.
func (s *Service) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	return s.repo.Upsert(ctx, p)
}
