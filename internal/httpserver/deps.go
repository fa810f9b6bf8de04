package httpserver

import (
	"context"
	"time"

	"github.com/google/uuid"

	"shop-api/internal/domain"
	"shop-api/internal/service/account"
	"shop-api/internal/service/cart"
	"shop-api/internal/service/identity"
)

type CartService interface {
	GetOrCreateOrder(ctx context.Context, owner domain.Owner) (*domain.Order, error)
	AddItem(ctx context.Context, owner domain.Owner, in cart.AddItemInput) (*domain.OrderItem, error)
	SetItemQuantity(ctx context.Context, owner domain.Owner, itemID int64, quantity int) (*domain.OrderItem, error)
	RemoveItem(ctx context.Context, owner domain.Owner, itemID int64) error
	ListItems(ctx context.Context, owner domain.Owner, orderID int64) ([]domain.OrderItem, error)
	OrderDetail(ctx context.Context, owner domain.Owner, orderID int64) (*cart.OrderDetail, error)
	History(ctx context.Context, userID int64) ([]domain.Order, error)
	AdoptAnonymousOrder(ctx context.Context, token uuid.UUID, userID int64) (*domain.Order, error)
	AddShippingAddress(ctx context.Context, owner domain.Owner, in cart.AddressInput) (*domain.ShippingAddress, error)
	ListShippingAddresses(ctx context.Context, userID int64) ([]domain.ShippingAddress, error)
}

type ProductService interface {
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type AccountService interface {
	Register(ctx context.Context, in account.RegisterInput) (*domain.User, error)
	VerifyEmail(ctx context.Context, email, token string) error
	VerifiedRedirectURL() string
	Login(ctx context.Context, login, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refresh string) (string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, email, token, password string) error
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID int64) error
	AccessTTLSeconds() int
}

// IdentityResolver decides which cart owner a request acts for.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID *int64, sessionID string) identity.Result
	AnonymousToken(ctx context.Context, sessionID string) (uuid.UUID, bool)
	Forget(ctx context.Context, sessionID string)
}

// Deps groups the services the router dispatches to.
type Deps struct {
	CartSvc     CartService
	ProductSvc  ProductService
	CategorySvc CategoryService
	AccountSvc  AccountService
	Identity    IdentityResolver
}

// Options tune transport details that are not business logic.
type Options struct {
	CORSOrigins   []string
	SessionCookie string
	SessionTTL    time.Duration
	SecureCookies bool
	Currency      string
}

func (o Options) withDefaults() Options {
	if o.SessionCookie == "" {
		o.SessionCookie = "sessionid"
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = 14 * 24 * time.Hour
	}
	return o
}
