package events

import (
	"context"
	"time"
)

const (
	TypeOrderCreated     = "order.created"
	TypeOrderItemAdded   = "order_item.added"
	TypeOrderItemUpdated = "order_item.updated"
	TypeOrderItemRemoved = "order_item.removed"
)

// Event describes a committed cart mutation.
type Event struct {
	Type       string    `json:"type"`
	OrderID    int64     `json:"order_id"`
	ItemID     int64     `json:"item_id,omitempty"`
	ProductID  int64     `json:"product_id,omitempty"`
	Color      string    `json:"color,omitempty"`
	Size       string    `json:"size,omitempty"`
	Quantity   int       `json:"quantity,omitempty"`
	Owner      string    `json:"owner"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type noop struct{}

// NewNoop returns a Publisher that drops every event.
func NewNoop() Publisher { return noop{} }

func (noop) Publish(context.Context, Event) error { return nil }
func (noop) Close() error                         { return nil }
