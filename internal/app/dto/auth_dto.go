package dto

import (
	"time"

	"github.com/mrops-br/cyberstore-api/internal/domain"
)

// LoginRequest represents the login form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration form. ConfirmPassword is
// checked only when supplied.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// UserResponse represents the signed-in user
type UserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// AccountResponse is the account page: the user and their orders
type AccountResponse struct {
	User   *UserResponse       `json:"user"`
	Orders []*CheckoutResponse `json:"orders"`
}

// ToUserResponse converts a domain User
func ToUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{Name: u.Name, Email: u.Email}
}
