package token

import (
	"context"
	"time"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

type Token struct {
	Token     string
	UserID    int64
	Kind      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID int64) error
}
