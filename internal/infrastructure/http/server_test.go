package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mrops-br/cyberstore-api/internal/app/dto"
	"github.com/mrops-br/cyberstore-api/internal/app/service"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/auth"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/config"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/payment"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/repository/memory"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler  nethttp.Handler
	checkout *service.CheckoutService
	session  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	telem := telemetry.NewNoOpTelemetry(&config.OTLPConfig{ServiceName: "cyberstore-api-test"})
	tracer := telem.TracerProvider.Tracer("test")
	meter := telem.MeterProvider.Meter("test")
	logger := telem.Logger

	catalog, err := memory.DefaultCatalog()
	require.NoError(t, err)

	products := memory.NewProductRepository(catalog, tracer, logger)
	sessions := memory.NewSessionRepository(tracer, logger)
	checkouts := memory.NewCheckoutRepository(tracer, logger)
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)

	catalogService := service.NewCatalogService(products, tracer, meter, logger)
	cartService := service.NewCartService(products, sessions, tracer, meter, logger)
	authService := service.NewAuthService(auth.NewMockAuthenticator(logger), sessions, tokens, tracer, meter, logger)
	checkoutService := service.NewCheckoutService(sessions, checkouts, payment.NewSimulatedGateway(0, tracer, logger), decimal.Zero, tracer, meter, logger)

	server := NewServer(&config.ServerConfig{Host: "127.0.0.1", Port: "0"}, Handlers{
		Products: handler.NewProductHandler(catalogService, logger),
		Cart:     handler.NewCartHandler(cartService, logger),
		Auth:     handler.NewAuthHandler(authService, checkoutService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, logger),
		Tokens:   tokens,
	}, logger, telem)

	return &testServer{handler: server.Handler(), checkout: checkoutService}
}

// do sends a request on the server's session and records the session it was given
func (s *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if s.session != "" {
		req.Header.Set(middleware.SessionHeader, s.session)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if id := rec.Header().Get(middleware.SessionHeader); id != "" {
		s.session = id
	}
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, nethttp.MethodGet, "/health", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestServer_Catalog(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, nethttp.MethodGet, "/products?category=vpn&sort=price-desc", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	list := decode[dto.ProductListResponse](t, rec)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "securevpn-ultimate", list.Products[0].ID)
	assert.Equal(t, "69.99", list.Products[0].EffectivePrice.StringFixed(2))

	rec = s.do(t, nethttp.MethodGet, "/products/keyvault-premium", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "keyvault-premium", decode[dto.ProductResponse](t, rec).ID)

	rec = s.do(t, nethttp.MethodGet, "/products/featured", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, 5, decode[dto.ProductListResponse](t, rec).Count)

	rec = s.do(t, nethttp.MethodGet, "/products/new-releases", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)

	rec = s.do(t, nethttp.MethodGet, "/products/secure-files/related", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, "cryptlock-enterprise", decode[dto.ProductListResponse](t, rec).Products[0].ID)

	rec = s.do(t, nethttp.MethodGet, "/categories", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, decode[[]dto.CategoryResponse](t, rec), 8)
}

func TestServer_CatalogErrors(t *testing.T) {
	s := newTestServer(t)

	for path, status := range map[string]int{
		"/products/ghost":           nethttp.StatusNotFound,
		"/products/ghost/related":   nethttp.StatusNotFound,
		"/products?category=toys":   nethttp.StatusBadRequest,
		"/products?sort=cheapest":   nethttp.StatusBadRequest,
		"/products?filter=trending": nethttp.StatusBadRequest,
	} {
		rec := s.do(t, nethttp.MethodGet, path, nil)
		assert.Equal(t, status, rec.Code, path)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json", path)
	}
}

func TestServer_CartIsScopedBySession(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, nethttp.MethodPost, "/cart/items", dto.AddCartItemRequest{ProductID: "cybershield-pro", Quantity: 1})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	require.NotEmpty(t, s.session)

	rec = s.do(t, nethttp.MethodPost, "/cart/items", dto.AddCartItemRequest{ProductID: "cybershield-pro", Quantity: 2})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	cart := decode[dto.CartResponse](t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, "179.97", cart.Total.StringFixed(2))

	rec = s.do(t, nethttp.MethodPut, "/cart/items/cybershield-pro", dto.UpdateCartItemRequest{Quantity: 0})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[dto.CartResponse](t, rec).ItemCount)

	// a new client starts from an empty cart
	other := &testServer{handler: s.handler}
	rec = other.do(t, nethttp.MethodGet, "/cart", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[dto.CartResponse](t, rec).ItemCount)
	assert.NotEqual(t, s.session, other.session)

	rec = s.do(t, nethttp.MethodDelete, "/cart/items/cybershield-pro", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Empty(t, decode[dto.CartResponse](t, rec).Items)

	rec = s.do(t, nethttp.MethodDelete, "/cart", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestServer_CartErrors(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, nethttp.MethodPost, "/cart/items", dto.AddCartItemRequest{ProductID: "ghost", Quantity: 1})
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	req := httptest.NewRequest(nethttp.MethodPost, "/cart/items", strings.NewReader("{"))
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}

func TestServer_AuthAndAccount(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, nethttp.MethodPost, "/auth/login", dto.LoginRequest{Email: "nope", Password: "pw"})
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/auth/register", dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "pw", ConfirmPassword: "different",
	})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/auth/register", dto.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "pw", ConfirmPassword: "pw",
	})
	require.Equal(t, nethttp.StatusCreated, rec.Code)
	authResp := decode[dto.AuthResponse](t, rec)
	assert.Equal(t, "Jane", authResp.User.Name)

	rec = s.do(t, nethttp.MethodGet, "/account", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec = s.do(t, nethttp.MethodGet, "/account", nil, "Authorization", "Bearer "+authResp.Token)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	account := decode[dto.AccountResponse](t, rec)
	assert.Equal(t, "jane@example.com", account.User.Email)
	assert.Empty(t, account.Orders)

	rec = s.do(t, nethttp.MethodPost, "/auth/logout", nil)
	assert.Equal(t, nethttp.StatusNoContent, rec.Code)

	rec = s.do(t, nethttp.MethodGet, "/account", nil, "Authorization", "Bearer "+authResp.Token)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)
}

func validCheckout() dto.CheckoutRequest {
	return dto.CheckoutRequest{
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Address:    "1 Main St",
		City:       "Springfield",
		Country:    "US",
		Zip:        "12345",
		CardName:   "JANE DOE",
		CardNumber: "4242424242424242",
		CardExpiry: "01/30",
		CardCVC:    "123",
	}
}

func TestServer_Checkout(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, nethttp.MethodPost, "/checkout", validCheckout())
	assert.Equal(t, nethttp.StatusConflict, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/cart/items", dto.AddCartItemRequest{ProductID: "secure-files", Quantity: 2})
	require.Equal(t, nethttp.StatusOK, rec.Code)

	incomplete := validCheckout()
	incomplete.Address = ""
	rec = s.do(t, nethttp.MethodPost, "/checkout", incomplete)
	assert.Equal(t, nethttp.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, nethttp.MethodPost, "/checkout", validCheckout())
	require.Equal(t, nethttp.StatusAccepted, rec.Code)
	started := decode[dto.CheckoutResponse](t, rec)
	assert.Equal(t, "processing", started.Status)
	assert.Equal(t, "39.98", started.Total.StringFixed(2))
	assert.NotContains(t, rec.Body.String(), "4242424242424242")

	s.checkout.Wait()

	rec = s.do(t, nethttp.MethodGet, "/checkout/"+started.ID, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	done := decode[dto.CheckoutResponse](t, rec)
	assert.Equal(t, "confirmation", done.Status)
	assert.NotEmpty(t, done.OrderNumber)

	rec = s.do(t, nethttp.MethodGet, "/cart", nil)
	assert.Equal(t, 0, decode[dto.CartResponse](t, rec).ItemCount)

	other := &testServer{handler: s.handler}
	rec = other.do(t, nethttp.MethodGet, "/checkout/"+started.ID, nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	s := newTestServer(t)

	s.do(t, nethttp.MethodGet, "/products", nil)

	rec := s.do(t, nethttp.MethodGet, "/metrics", nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
