package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	"github.com/mrops-br/cyberstore-api/internal/app/dto"
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// TokenIssuer signs session tokens for signed-in users
type TokenIssuer interface {
	Issue(user *domain.User, sessionID string) (string, time.Time, error)
}

// AuthService signs sessions in and out through an Authenticator
type AuthService struct {
	authenticator domain.Authenticator
	sessions      domain.SessionRepository
	tokens        TokenIssuer
	tracer        trace.Tracer
	logger        *slog.Logger
	authAttempts  metric.Int64Counter
}

// NewAuthService creates a new auth service
func NewAuthService(
	authenticator domain.Authenticator,
	sessions domain.SessionRepository,
	tokens TokenIssuer,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *AuthService {
	authAttempts, _ := meter.Int64Counter(
		"auth.attempts",
		metric.WithDescription("Total number of login and registration attempts"),
	)

	return &AuthService{
		authenticator: authenticator,
		sessions:      sessions,
		tokens:        tokens,
		tracer:        tracer,
		logger:        logger,
		authAttempts:  authAttempts,
	}
}

func (s *AuthService) record(ctx context.Context, operation, result string) {
	s.authAttempts.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// Login authenticates the credentials and signs the session in
func (s *AuthService) Login(ctx context.Context, sessionID string, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	user, err := s.authenticator.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, span, "login", err)
	}

	return s.signIn(ctx, span, "login", sessionID, user)
}

// Register creates an identity and signs the session in
func (s *AuthService) Register(ctx context.Context, sessionID string, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		return nil, s.fail(ctx, span, "register", domain.ErrPasswordMismatch)
	}

	user, err := s.authenticator.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return nil, s.fail(ctx, span, "register", err)
	}

	return s.signIn(ctx, span, "register", sessionID, user)
}

func (s *AuthService) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "Authentication failed")
	s.logger.WarnContext(ctx, "Authentication failed",
		slog.String("operation", operation),
		slog.String("error", err.Error()),
	)
	s.record(ctx, operation, "failure")
	return err
}

func (s *AuthService) signIn(ctx context.Context, span trace.Span, operation, sessionID string, user *domain.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user, sessionID)
	if err != nil {
		return nil, s.fail(ctx, span, operation, errors.Wrap(err, "issue token"))
	}

	err = s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		session.SignIn(user)
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, span, operation, err)
	}

	s.record(ctx, operation, "success")
	s.logger.InfoContext(ctx, "User signed in",
		slog.String("operation", operation),
		slog.String("email", user.Email),
	)

	span.SetStatus(codes.Ok, "User signed in")
	return &dto.AuthResponse{
		User:      dto.ToUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Logout clears the authentication state of the session
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	err := s.sessions.Update(ctx, sessionID, func(session *domain.Session) error {
		session.SignOut()
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Logout failed")
		return err
	}

	s.logger.InfoContext(ctx, "User signed out")
	span.SetStatus(codes.Ok, "User signed out")
	return nil
}

// CurrentUser returns the user signed in to the session. email, when not
// empty, must match the session user.
func (s *AuthService) CurrentUser(ctx context.Context, sessionID, email string) (*domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.CurrentUser")
	defer span.End()

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load session")
		return nil, err
	}

	if !session.Auth.Authenticated || session.Auth.User == nil {
		span.SetStatus(codes.Error, "Session not authenticated")
		return nil, domain.ErrUnauthenticated
	}
	if email != "" && session.Auth.User.Email != email {
		span.SetStatus(codes.Error, "Token does not match session")
		return nil, domain.ErrUnauthenticated
	}

	span.SetStatus(codes.Ok, "User resolved")
	return session.Auth.User, nil
}
