package address

import (
	"context"

	"shop-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.ShippingAddress, error)
}
