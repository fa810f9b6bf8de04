package product

import (
	"context"

	"shop-api/internal/domain"
)

type Repository interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	// Upsert inserts or updates a product keyed by name and replaces its images.
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
