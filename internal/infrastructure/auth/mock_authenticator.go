package auth

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mrops-br/cyberstore-api/internal/domain"
)

// MockAuthenticator accepts any syntactically valid credentials. It performs
// no verification and stores nothing; replace it with a real identity provider.
type MockAuthenticator struct {
	logger *slog.Logger
}

// NewMockAuthenticator creates a mock authenticator
func NewMockAuthenticator(logger *slog.Logger) *MockAuthenticator {
	return &MockAuthenticator{logger: logger}
}

// Authenticate succeeds for any well-formed email and non-empty password
func (a *MockAuthenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	addr, err := parseEmail(email)
	if err != nil || password == "" {
		a.logger.DebugContext(ctx, "Mock login rejected malformed input")
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.User{
		Name:  displayName(addr),
		Email: addr,
	}, nil
}

// Register succeeds for any non-empty name, well-formed email and non-empty password
func (a *MockAuthenticator) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	addr, err := parseEmail(email)
	if err != nil || password == "" || name == "" {
		a.logger.DebugContext(ctx, "Mock registration rejected malformed input")
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.User{
		Name:  name,
		Email: addr,
	}, nil
}

func parseEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	return addr.Address, nil
}

// displayName derives a name from the local part of an address,
// "jane.doe@example.com" becomes "jane.doe"
func displayName(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
