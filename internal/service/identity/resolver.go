package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/logging"
	"shop-api/internal/session"
)

// Result is the outcome of resolving a request. SessionID is the session the
// caller should keep; NewSession tells the transport to hand it to the client.
type Result struct {
	Owner      domain.Owner
	SessionID  string
	NewSession bool
}

// Resolver maps a request to the cart owner it acts for.
type Resolver struct {
	store  session.Store
	logger *zap.Logger
}

func New(store session.Store, logger *zap.Logger) *Resolver {
	return &Resolver{store: store, logger: logging.OrNop(logger)}
}

// Resolve returns the authenticated user when userID is set, otherwise the
// anonymous cart token stored in the session, minting one if needed. It never
// fails: session store errors degrade to a fresh anonymous identity.
func (r *Resolver) Resolve(ctx context.Context, userID *int64, sessionID string) Result {
	if userID != nil {
		return Result{Owner: domain.UserOwner(*userID), SessionID: sessionID}
	}

	if session.ValidID(sessionID) {
		token, err := r.store.CartToken(ctx, sessionID)
		if err == nil {
			return Result{Owner: domain.AnonymousOwner(token), SessionID: sessionID}
		}
		if errors.Is(err, domain.ErrNotFound) {
			// Known cookie, expired or never-written state: bind a new token to it.
			return r.mint(ctx, sessionID, false)
		}
		r.logger.Warn("identity: session read failed, issuing fresh session",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	return r.mint(ctx, session.NewID(), true)
}

// AnonymousToken returns the cart token held by the session, if any.
func (r *Resolver) AnonymousToken(ctx context.Context, sessionID string) (uuid.UUID, bool) {
	if !session.ValidID(sessionID) {
		return uuid.Nil, false
	}
	token, err := r.store.CartToken(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			r.logger.Warn("identity: session read failed", zap.String("session_id", sessionID), zap.Error(err))
		}
		return uuid.Nil, false
	}
	return token, true
}

// Forget drops the anonymous state of a session, e.g. after its cart was
// adopted by a user.
func (r *Resolver) Forget(ctx context.Context, sessionID string) {
	if !session.ValidID(sessionID) {
		return
	}
	if err := r.store.Delete(ctx, sessionID); err != nil {
		r.logger.Warn("identity: session delete failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// mint binds a fresh token to the session. A concurrent request that got
// there first wins and its token is returned instead.
func (r *Resolver) mint(ctx context.Context, sessionID string, isNew bool) Result {
	token, err := r.store.SetCartTokenIfAbsent(ctx, sessionID, uuid.New())
	if err != nil {
		r.logger.Warn("identity: session write failed, cart token is request-scoped",
			zap.String("session_id", sessionID), zap.Error(err))
		token = uuid.New()
	} else {
		r.logger.Debug("identity: anonymous cart token bound", zap.String("session_id", sessionID))
	}
	return Result{Owner: domain.AnonymousOwner(token), SessionID: sessionID, NewSession: isNew}
}
