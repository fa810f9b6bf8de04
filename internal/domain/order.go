package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPlaced    OrderStatus = "Placed"
	StatusCancelled OrderStatus = "Cancelled"
)

// Order is a shopping cart while Pending, a purchase afterwards. Both owner
// columns may be nil for rows orphaned by account deletion.
type Order struct {
	ID                int64
	UserID            *int64
	SessionToken      *uuid.UUID
	Status            OrderStatus
	ShippingAddressID *int64
	CreatedAt         time.Time
}

// OrderItem is one line of an order. Product is populated on reads.
type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Product   *Product
	Variant   Variant
	Quantity  int
	CreatedAt time.Time
}

// MaxItemQuantity bounds the quantity of a single line, merged adds included.
// order_items carries the same CHECK.
const MaxItemQuantity = 10000

// ValidateQuantity rejects quantities outside 1..MaxItemQuantity.
func ValidateQuantity(q int) error {
	if q < 1 {
		return fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}
	if q > MaxItemQuantity {
		return fmt.Errorf("%w: quantity must not exceed %d", ErrInvalidInput, MaxItemQuantity)
	}
	return nil
}

// QuantityMode selects how an upsert treats an existing line's quantity.
type QuantityMode int

const (
	Accumulate QuantityMode = iota
	Replace
)

type ShippingAddress struct {
	ID        int64
	UserID    *int64
	OrderID   *int64
	Address   string
	City      string
	ZipCode   string
	CreatedAt time.Time
}
