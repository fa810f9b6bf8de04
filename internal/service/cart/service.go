package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/events"
	"shop-api/internal/logging"
	orderrepo "shop-api/internal/repository/order"
	"shop-api/internal/service/pricing"
)

const (
	createAttempts = 3
	publishTimeout = 2 * time.Second
)

type Service struct {
	repo      orderRepo
	products  productRepo
	addresses addressRepo
	pricing   *pricing.Projector
	events    events.Publisher
	logger    *zap.Logger
}

type orderRepo interface {
	FindOpenOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error)
	CreateOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	AdoptAnonymous(ctx context.Context, token uuid.UUID, userID int64) (*domain.Order, error)
	SetShippingAddress(ctx context.Context, orderID, addressID int64) error
	GetItem(ctx context.Context, id int64) (*domain.OrderItem, error)
	UpsertItem(ctx context.Context, in orderrepo.UpsertItemInput) (*domain.OrderItem, error)
	SetItemQuantity(ctx context.Context, itemID int64, quantity int) (*domain.OrderItem, error)
	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	DeleteItem(ctx context.Context, itemID int64) error
}

type productRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
}

type addressRepo interface {
	Create(ctx context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.ShippingAddress, error)
}

type Option func(*Service)

// WithEvents publishes cart mutations to p.
func WithEvents(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNop(l) }
}

func New(repo orderRepo, products productRepo, addresses addressRepo, projector *pricing.Projector, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		products:  products,
		addresses: addresses,
		pricing:   projector,
		events:    events.NewNoop(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddItemInput is a request to put quantity units of a product variant into
// the owner's open order.
type AddItemInput struct {
	ProductID int64
	Quantity  int
	Color     *string
	Size      *string
}

type AddressInput struct {
	Address string
	City    string
	ZipCode string
}

// OrderDetail is an order with its lines and a total priced at read time.
type OrderDetail struct {
	Order *domain.Order
	Items []domain.OrderItem
	Total pricing.Money
}

// GetOrCreateOrder returns the owner's open order, creating it on first use.
// Concurrent first calls converge on a single order: the loser of the insert
// race refetches the winner.
func (s *Service) GetOrCreateOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	for attempt := 0; attempt < createAttempts; attempt++ {
		o, err := s.repo.FindOpenOrder(ctx, owner)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}

		o, err = s.repo.CreateOrder(ctx, owner)
		if err == nil {
			s.publish(ctx, events.Event{Type: events.TypeOrderCreated, OrderID: o.ID, Owner: owner.String()})
			return o, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		s.logger.Debug("cart: concurrent order creation, refetching", zap.Stringer("owner", owner), zap.Int("attempt", attempt))
	}
	return nil, fmt.Errorf("%w: open order for %s", domain.ErrConflict, owner)
}

// AddItem merges quantity into the line identified by product and variant,
// returning the line after the merge.
func (s *Service) AddItem(ctx context.Context, owner domain.Owner, in AddItemInput) (*domain.OrderItem, error) {
	if in.ProductID <= 0 {
		return nil, fmt.Errorf("%w: product_id is required", domain.ErrInvalidInput)
	}
	if err := domain.ValidateQuantity(in.Quantity); err != nil {
		return nil, err
	}
	variant := domain.NewVariant(in.Color, in.Size)
	if err := variant.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.products.GetByID(ctx, in.ProductID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: product %d", domain.ErrNotFound, in.ProductID)
		}
		return nil, err
	}

	o, err := s.GetOrCreateOrder(ctx, owner)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.UpsertItem(ctx, orderrepo.UpsertItemInput{
		OrderID:   o.ID,
		ProductID: in.ProductID,
		Variant:   variant,
		Quantity:  in.Quantity,
		Mode:      domain.Accumulate,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("cart: item added",
		zap.Stringer("owner", owner),
		zap.Int64("order_id", o.ID),
		zap.Int64("item_id", item.ID),
		zap.Int("quantity", item.Quantity))
	s.publish(ctx, events.Event{
		Type:      events.TypeOrderItemAdded,
		OrderID:   o.ID,
		ItemID:    item.ID,
		ProductID: item.ProductID,
		Color:     variant.Color,
		Size:      variant.Size,
		Quantity:  item.Quantity,
		Owner:     owner.String(),
	})
	return item, nil
}

// SetItemQuantity replaces the quantity of a line. Non-positive quantities
// are rejected rather than treated as removal.
func (s *Service) SetItemQuantity(ctx context.Context, owner domain.Owner, itemID int64, quantity int) (*domain.OrderItem, error) {
	if err := domain.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	current, err := s.ownedOpenItem(ctx, owner, itemID)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.SetItemQuantity(ctx, current.ID, quantity)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Type:      events.TypeOrderItemUpdated,
		OrderID:   item.OrderID,
		ItemID:    item.ID,
		ProductID: item.ProductID,
		Color:     item.Variant.Color,
		Size:      item.Variant.Size,
		Quantity:  item.Quantity,
		Owner:     owner.String(),
	})
	return item, nil
}

// RemoveItem deletes a line. Removing it again reports domain.ErrNotFound.
func (s *Service) RemoveItem(ctx context.Context, owner domain.Owner, itemID int64) error {
	item, err := s.ownedOpenItem(ctx, owner, itemID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:      events.TypeOrderItemRemoved,
		OrderID:   item.OrderID,
		ItemID:    item.ID,
		ProductID: item.ProductID,
		Owner:     owner.String(),
	})
	return nil
}

func (s *Service) ListItems(ctx context.Context, owner domain.Owner, orderID int64) ([]domain.OrderItem, error) {
	if _, err := s.ownedOrder(ctx, owner, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, orderID)
}

func (s *Service) OrderDetail(ctx context.Context, owner domain.Owner, orderID int64) (*OrderDetail, error) {
	o, err := s.ownedOrder(ctx, owner, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: o, Items: items, Total: s.pricing.Total(items)}, nil
}

// History lists every order of a user, newest first.
func (s *Service) History(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// AdoptAnonymousOrder hands the open order of an anonymous session over to a
// user who just logged in. It is a no-op when there is nothing to adopt or
// the user already has an open order.
func (s *Service) AdoptAnonymousOrder(ctx context.Context, token uuid.UUID, userID int64) (*domain.Order, error) {
	o, err := s.repo.AdoptAnonymous(ctx, token, userID)
	switch {
	case err == nil:
		s.logger.Info("cart: anonymous order adopted", zap.Int64("order_id", o.ID), zap.Int64("user_id", userID))
		return o, nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrConflict):
		return nil, nil
	default:
		return nil, err
	}
}

// AddShippingAddress stores an address for the owner's open order and points
// the order at it. Authenticated owners also get the address on their account.
func (s *Service) AddShippingAddress(ctx context.Context, owner domain.Owner, in AddressInput) (*domain.ShippingAddress, error) {
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	if in.Address == "" || in.City == "" || in.ZipCode == "" {
		return nil, fmt.Errorf("%w: address, city and zip_code are required", domain.ErrInvalidInput)
	}

	o, err := s.GetOrCreateOrder(ctx, owner)
	if err != nil {
		return nil, err
	}
	orderID := o.ID
	addr := domain.ShippingAddress{OrderID: &orderID, Address: in.Address, City: in.City, ZipCode: in.ZipCode}
	if owner.IsUser() {
		userID := owner.UserID
		addr.UserID = &userID
	}
	created, err := s.addresses.Create(ctx, addr)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetShippingAddress(ctx, o.ID, created.ID); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) ListShippingAddresses(ctx context.Context, userID int64) ([]domain.ShippingAddress, error) {
	return s.addresses.ListByUser(ctx, userID)
}

func (s *Service) ownedOrder(ctx context.Context, owner domain.Owner, orderID int64) (*domain.Order, error) {
	if err := owner.Validate(); err != nil {
		return nil, err
	}
	o, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !owner.Owns(*o) {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *Service) ownedOpenItem(ctx context.Context, owner domain.Owner, itemID int64) (*domain.OrderItem, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	o, err := s.ownedOrder(ctx, owner, item.OrderID)
	if err != nil {
		return nil, err
	}
	if o.Status != domain.StatusPending {
		return nil, fmt.Errorf("%w: order %d is %s", domain.ErrInvalidInput, o.ID, o.Status)
	}
	return item, nil
}

// publish is best effort: the mutation is already committed.
func (s *Service) publish(ctx context.Context, e events.Event) {
	e.OccurredAt = time.Now().UTC()
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.Publish(pubCtx, e); err != nil {
		s.logger.Warn("cart: event publish failed",
			zap.String("type", e.Type),
			zap.Int64("order_id", e.OrderID),
			zap.Error(err))
	}
}
