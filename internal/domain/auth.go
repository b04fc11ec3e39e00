package domain

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUnauthenticated    = errors.New("authentication required")
)

// User is the identity attached to an authenticated session
type User struct {
	Name  string
	Email string
}

// AuthState is the authentication status of a session
type AuthState struct {
	User          *User
	Authenticated bool
}

// Authenticator verifies or creates identities. Implementations may be
// replaced by a real identity provider without touching cart or catalog logic.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, name, email, password string) (*User, error)
}
