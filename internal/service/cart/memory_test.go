package cart

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shop-api/internal/domain"
	"shop-api/internal/events"
	orderrepo "shop-api/internal/repository/order"
)

// memRepo mirrors the Postgres constraints the service relies on: one
// Pending order per owner and one line per (order, product, color, size).
type memRepo struct {
	mu        sync.Mutex
	nextOrder int64
	nextItem  int64
	orders    map[int64]*domain.Order
	items     map[int64]*domain.OrderItem
	catalog   *memProducts
}

func newMemRepo(catalog *memProducts) *memRepo {
	return &memRepo{
		orders:  make(map[int64]*domain.Order),
		items:   make(map[int64]*domain.OrderItem),
		catalog: catalog,
	}
}

func (r *memRepo) findOpenLocked(owner domain.Owner) *domain.Order {
	for _, o := range r.orders {
		if o.Status == domain.StatusPending && owner.Owns(*o) {
			return o
		}
	}
	return nil
}

func (r *memRepo) FindOpenOrder(_ context.Context, owner domain.Owner) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o := r.findOpenLocked(owner); o != nil {
		cp := *o
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) CreateOrder(_ context.Context, owner domain.Owner) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findOpenLocked(owner) != nil {
		return nil, domain.ErrConflict
	}
	r.nextOrder++
	o := &domain.Order{ID: r.nextOrder, Status: domain.StatusPending, CreatedAt: time.Now()}
	if owner.IsUser() {
		id := owner.UserID
		o.UserID = &id
	} else {
		token := owner.SessionToken
		o.SessionToken = &token
	}
	r.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (r *memRepo) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *memRepo) ListByUser(_ context.Context, userID int64) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *memRepo) AdoptAnonymous(_ context.Context, token uuid.UUID, userID int64) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	anon := r.findOpenLocked(domain.AnonymousOwner(token))
	if anon == nil || r.findOpenLocked(domain.UserOwner(userID)) != nil {
		return nil, domain.ErrNotFound
	}
	anon.UserID = &userID
	anon.SessionToken = nil
	cp := *anon
	return &cp, nil
}

func (r *memRepo) SetShippingAddress(_ context.Context, orderID, addressID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	o.ShippingAddressID = &addressID
	return nil
}

func (r *memRepo) GetItem(_ context.Context, id int64) (*domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.hydrate(*item), nil
}

func (r *memRepo) UpsertItem(_ context.Context, in orderrepo.UpsertItemInput) (*domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[in.OrderID]; !ok {
		return nil, domain.ErrNotFound
	}
	if !r.catalog.has(in.ProductID) {
		return nil, domain.ErrNotFound
	}
	for _, item := range r.items {
		if item.OrderID == in.OrderID && item.ProductID == in.ProductID && item.Variant == in.Variant {
			next := in.Quantity
			if in.Mode == domain.Accumulate {
				next += item.Quantity
			}
			if next > domain.MaxItemQuantity {
				return nil, domain.ErrInvalidInput
			}
			item.Quantity = next
			return r.hydrate(*item), nil
		}
	}
	r.nextItem++
	item := &domain.OrderItem{
		ID:        r.nextItem,
		OrderID:   in.OrderID,
		ProductID: in.ProductID,
		Variant:   in.Variant,
		Quantity:  in.Quantity,
		CreatedAt: time.Now(),
	}
	r.items[item.ID] = item
	return r.hydrate(*item), nil
}

func (r *memRepo) SetItemQuantity(_ context.Context, itemID int64, quantity int) (*domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	item.Quantity = quantity
	return r.hydrate(*item), nil
}

func (r *memRepo) ListItems(_ context.Context, orderID int64) ([]domain.OrderItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			out = append(out, *r.hydrate(*item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) DeleteItem(_ context.Context, itemID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[itemID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *memRepo) openOrderCount(owner domain.Owner) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.orders {
		if o.Status == domain.StatusPending && owner.Owns(*o) {
			n++
		}
	}
	return n
}

func (r *memRepo) hydrate(item domain.OrderItem) *domain.OrderItem {
	if p, err := r.catalog.GetByID(context.Background(), item.ProductID); err == nil {
		item.Product = p
	}
	return &item
}

type memProducts struct {
	mu       sync.Mutex
	products map[int64]domain.Product
}

func newMemProducts() *memProducts {
	return &memProducts{products: make(map[int64]domain.Product)}
}

func (m *memProducts) put(id int64, price string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[id] = domain.Product{ID: id, Name: "product", Price: decimal.RequireFromString(price)}
}

func (m *memProducts) has(id int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.products[id]
	return ok
}

func (m *memProducts) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

type memAddresses struct {
	mu    sync.Mutex
	next  int64
	saved []domain.ShippingAddress
}

func (m *memAddresses) Create(_ context.Context, a domain.ShippingAddress) (*domain.ShippingAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	a.ID = m.next
	m.saved = append(m.saved, a)
	return &a, nil
}

func (m *memAddresses) ListByUser(_ context.Context, userID int64) ([]domain.ShippingAddress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ShippingAddress
	for _, a := range m.saved {
		if a.UserID != nil && *a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
