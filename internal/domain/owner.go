package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// OwnerKind discriminates the two cart owner variants.
type OwnerKind int

const (
	OwnerUser OwnerKind = iota + 1
	OwnerAnonymous
)

// Owner is the identity a cart belongs to: an authenticated user or an
// anonymous session token. Exactly one of UserID and SessionToken is set.
type Owner struct {
	Kind         OwnerKind
	UserID       int64
	SessionToken uuid.UUID
}

func UserOwner(id int64) Owner {
	return Owner{Kind: OwnerUser, UserID: id}
}

func AnonymousOwner(token uuid.UUID) Owner {
	return Owner{Kind: OwnerAnonymous, SessionToken: token}
}

func (o Owner) IsUser() bool      { return o.Kind == OwnerUser }
func (o Owner) IsAnonymous() bool { return o.Kind == OwnerAnonymous }

// Validate rejects zero-valued owners and anonymous owners without a token.
func (o Owner) Validate() error {
	switch o.Kind {
	case OwnerUser:
		if o.UserID <= 0 {
			return fmt.Errorf("%w: user id must be positive", ErrInvalidInput)
		}
	case OwnerAnonymous:
		if o.SessionToken == uuid.Nil {
			return fmt.Errorf("%w: session token required", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: owner kind unset", ErrInvalidInput)
	}
	return nil
}

// Owns reports whether the order belongs to this owner, comparing only the
// active variant.
func (o Owner) Owns(order Order) bool {
	switch o.Kind {
	case OwnerUser:
		return order.UserID != nil && *order.UserID == o.UserID
	case OwnerAnonymous:
		return order.SessionToken != nil && *order.SessionToken == o.SessionToken
	default:
		return false
	}
}

func (o Owner) String() string {
	switch o.Kind {
	case OwnerUser:
		return fmt.Sprintf("user:%d", o.UserID)
	case OwnerAnonymous:
		return "session:" + o.SessionToken.String()
	default:
		return "unknown"
	}
}
