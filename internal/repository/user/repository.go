package user

import (
	"context"

	"shop-api/internal/domain"
)

// Repository persists accounts together with their profile row.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByLogin matches either the username or the email address.
	GetByLogin(ctx context.Context, login string) (*domain.User, error)
	MarkVerified(ctx context.Context, id int64) error
	SetPasswordResetToken(ctx context.Context, id int64, token string) error
	// UpdatePassword stores a new hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (*domain.User, error)
	Delete(ctx context.Context, id int64) error
}
