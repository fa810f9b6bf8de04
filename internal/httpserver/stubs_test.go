package httpserver

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shop-api/internal/domain"
	"shop-api/internal/service/account"
	"shop-api/internal/service/cart"
)

type stubCart struct {
	mu        sync.Mutex
	owners    []domain.Owner
	added     []cart.AddItemInput
	adopted   []uuid.UUID
	detail    *cart.OrderDetail
	history   []domain.Order
	err       error
	removeErr error
}

func (s *stubCart) record(owner domain.Owner) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.owners = append(s.owners, owner)
}

func (s *stubCart) lastOwner() domain.Owner {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.owners) == 0 {
		return domain.Owner{}
	}
	return s.owners[len(s.owners)-1]
}

func (s *stubCart) GetOrCreateOrder(_ context.Context, owner domain.Owner) (*domain.Order, error) {
	s.record(owner)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Order{ID: 10, Status: domain.StatusPending}, nil
}

func (s *stubCart) AddItem(_ context.Context, owner domain.Owner, in cart.AddItemInput) (*domain.OrderItem, error) {
	s.record(owner)
	s.mu.Lock()
	s.added = append(s.added, in)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &domain.OrderItem{
		ID:        1,
		OrderID:   10,
		ProductID: in.ProductID,
		Product:   &domain.Product{ID: in.ProductID, Name: "Shirt", Price: decimal.RequireFromString("25")},
		Variant:   domain.NewVariant(in.Color, in.Size),
		Quantity:  in.Quantity,
	}, nil
}

func (s *stubCart) SetItemQuantity(_ context.Context, owner domain.Owner, itemID int64, quantity int) (*domain.OrderItem, error) {
	s.record(owner)
	if s.err != nil {
		return nil, s.err
	}
	return &domain.OrderItem{ID: itemID, OrderID: 10, Quantity: quantity}, nil
}

func (s *stubCart) RemoveItem(_ context.Context, owner domain.Owner, _ int64) error {
	s.record(owner)
	return s.removeErr
}

func (s *stubCart) ListItems(_ context.Context, owner domain.Owner, _ int64) ([]domain.OrderItem, error) {
	s.record(owner)
	return nil, s.err
}

func (s *stubCart) OrderDetail(_ context.Context, owner domain.Owner, _ int64) (*cart.OrderDetail, error) {
	s.record(owner)
	if s.err != nil {
		return nil, s.err
	}
	return s.detail, nil
}

func (s *stubCart) History(_ context.Context, _ int64) ([]domain.Order, error) {
	return s.history, s.err
}

func (s *stubCart) AdoptAnonymousOrder(_ context.Context, token uuid.UUID, userID int64) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adopted = append(s.adopted, token)
	return &domain.Order{ID: 10, UserID: &userID, Status: domain.StatusPending}, nil
}

func (s *stubCart) AddShippingAddress(_ context.Context, owner domain.Owner, in cart.AddressInput) (*domain.ShippingAddress, error) {
	s.record(owner)
	if s.err != nil {
		return nil, s.err
	}
	orderID := int64(10)
	return &domain.ShippingAddress{ID: 3, OrderID: &orderID, Address: in.Address, City: in.City, ZipCode: in.ZipCode}, nil
}

func (s *stubCart) ListShippingAddresses(_ context.Context, _ int64) ([]domain.ShippingAddress, error) {
	return nil, s.err
}

type stubProducts struct {
	filter   domain.ProductFilter
	products []domain.Product
	err      error
}

func (s *stubProducts) List(_ context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	s.filter = filter
	return s.products, s.err
}

func (s *stubProducts) Get(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

type stubCategories struct {
	categories []domain.Category
	err        error
}

func (s *stubCategories) List(context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

// stubAccount accepts the bearer token "good" for user 7.
type stubAccount struct {
	user     *domain.User
	loginErr error
	regErr   error
	resetErr error
}

func (s *stubAccount) Register(context.Context, account.RegisterInput) (*domain.User, error) {
	return s.user, s.regErr
}

func (s *stubAccount) VerifyEmail(_ context.Context, email, token string) error {
	if email == "" || token == "" {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *stubAccount) VerifiedRedirectURL() string { return "http://localhost:4200/verified-email" }

func (s *stubAccount) Login(context.Context, string, string) (*domain.User, string, string, error) {
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	return s.user, "good", "refresh-token", nil
}

func (s *stubAccount) Refresh(_ context.Context, refresh string) (string, error) {
	if refresh != "refresh-token" {
		return "", account.ErrInvalidToken
	}
	return "good", nil
}

func (s *stubAccount) LookupByToken(_ context.Context, token string) (*domain.User, error) {
	if token != "good" {
		return nil, account.ErrInvalidToken
	}
	return s.user, nil
}

func (s *stubAccount) RequestPasswordReset(context.Context, string) error { return s.resetErr }

func (s *stubAccount) ConfirmPasswordReset(context.Context, string, string, string) error {
	return s.resetErr
}

func (s *stubAccount) Profile(context.Context, int64) (*domain.User, error) { return s.user, nil }

func (s *stubAccount) UpdateProfile(_ context.Context, _ int64, upd domain.ProfileUpdate) (*domain.User, error) {
	u := *s.user
	if upd.City != nil {
		u.Profile.City = *upd.City
	}
	return &u, nil
}

func (s *stubAccount) DeleteAccount(context.Context, int64) error { return nil }

func (s *stubAccount) AccessTTLSeconds() int { return 3600 }
