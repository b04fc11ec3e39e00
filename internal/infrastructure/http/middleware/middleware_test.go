package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(SessionID(r.Context())))
	})
}

func TestSession_MintsIDWhenMissing(t *testing.T) {
	rec := httptest.NewRecorder()
	Session()(echoSession()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

	id := rec.Header().Get(SessionHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.Body.String())
}

func TestSession_KeepsValidID(t *testing.T) {
	id := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionHeader, id)

	rec := httptest.NewRecorder()
	Session()(echoSession()).ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get(SessionHeader))
	assert.Equal(t, id, rec.Body.String())
}

func TestSession_ReplacesMalformedID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionHeader, "../../etc/passwd")

	rec := httptest.NewRecorder()
	Session()(echoSession()).ServeHTTP(rec, req)

	id := rec.Header().Get(SessionHeader)
	assert.NotEqual(t, "../../etc/passwd", id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequireToken(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	token, _, err := issuer.Issue(&domain.User{Name: "Jane", Email: "jane@example.com"}, "s1")
	require.NoError(t, err)

	protected := RequireToken(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(claims.SessionID))
	}))

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/account", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "s1", rec.Body.String())
			}
		})
	}
}

func TestClaimsFromContext_Empty(t *testing.T) {
	_, ok := ClaimsFromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}
