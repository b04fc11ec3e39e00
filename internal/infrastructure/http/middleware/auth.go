package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/auth"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/http/response"
)

type claimsKey struct{}

// TokenParser verifies bearer tokens
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// RequireToken rejects requests without a valid bearer token and binds the
// request to the session named in the token
func RequireToken(parser TokenParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
				response.Error(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
				return
			}

			claims, err := parser.Parse(token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the token claims stored by RequireToken
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims, ok
}
