package domain

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCheckoutNotFound = errors.New("checkout not found")
)

// ProductRepository defines the contract for the read-only catalog
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	FindAll(ctx context.Context) ([]*Product, error)
}

// SessionRepository stores sessions. Get returns a snapshot, and an empty
// session when id is unknown. Update runs fn with exclusive access to the
// session, creating it first when it does not exist.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) error
}

// CheckoutRepository stores checkouts
type CheckoutRepository interface {
	Create(ctx context.Context, checkout *Checkout) error
	FindByID(ctx context.Context, id string) (*Checkout, error)
	FindBySession(ctx context.Context, sessionID string) ([]*Checkout, error)
	Update(ctx context.Context, id string, fn func(*Checkout) error) error
}
