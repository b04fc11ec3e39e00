package domain

import "time"

// Session owns the cart and authentication state of one client
type Session struct {
	ID        string
	Cart      *Cart
	Auth      AuthState
	CreatedAt time.Time
}

// NewSession creates a session with an empty cart and no user
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Cart:      NewCart(),
		CreatedAt: time.Now(),
	}
}

// SignIn marks the session as authenticated for user
func (s *Session) SignIn(user *User) {
	s.Auth = AuthState{User: user, Authenticated: true}
}

// SignOut clears the authentication state
func (s *Session) SignOut() {
	s.Auth = AuthState{}
}

// Snapshot returns a copy of the session that shares no mutable state
func (s *Session) Snapshot() *Session {
	cp := *s
	cp.Cart = s.Cart.Clone()
	if s.Auth.User != nil {
		user := *s.Auth.User
		cp.Auth.User = &user
	}
	return &cp
}
