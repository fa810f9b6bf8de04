package order

import (
	"context"

	"github.com/google/uuid"

	"shop-api/internal/domain"
)

// UpsertItemInput identifies a line by (order, product, variant) and carries
// the quantity to merge into it.
type UpsertItemInput struct {
	OrderID   int64
	ProductID int64
	Variant   domain.Variant
	Quantity  int
	Mode      domain.QuantityMode
}

// Repository persists orders and their line items. Lookups of missing rows
// return domain.ErrNotFound; a lost race on the one-open-order-per-owner
// constraint returns domain.ErrConflict.
type Repository interface {
	FindOpenOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error)
	CreateOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	AdoptAnonymous(ctx context.Context, token uuid.UUID, userID int64) (*domain.Order, error)
	SetShippingAddress(ctx context.Context, orderID, addressID int64) error

	FindItem(ctx context.Context, orderID, productID int64, variant domain.Variant) (*domain.OrderItem, error)
	GetItem(ctx context.Context, id int64) (*domain.OrderItem, error)
	UpsertItem(ctx context.Context, in UpsertItemInput) (*domain.OrderItem, error)
	SetItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.OrderItem, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	DeleteItem(ctx context.Context, itemID int64) error
}
