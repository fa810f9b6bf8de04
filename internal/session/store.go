package session

import (
	"context"

	"github.com/google/uuid"
)

// Store keeps per-browser session state. The only value held today is the
// anonymous cart token bound to the session.
type Store interface {
	// CartToken returns the cart token of the session, or domain.ErrNotFound.
	CartToken(ctx context.Context, sessionID string) (uuid.UUID, error)
	// SetCartTokenIfAbsent binds token to the session unless one is already
	// bound, and returns whichever token the session holds afterwards.
	SetCartTokenIfAbsent(ctx context.Context, sessionID string, token uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, sessionID string) error
}

// NewID mints an opaque session identifier.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an identifier produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
