package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/mrops-br/cyberstore-api/internal/app/dto"
	"github.com/mrops-br/cyberstore-api/internal/app/service"
	"github.com/mrops-br/cyberstore-api/internal/domain"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/http/middleware"
	"github.com/mrops-br/cyberstore-api/internal/infrastructure/http/response"
)

// AuthHandler handles sign-in, registration and the account page
type AuthHandler struct {
	auth      *service.AuthService
	checkouts *service.CheckoutService
	logger    *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *service.AuthService, checkouts *service.CheckoutService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:      auth,
		checkouts: checkouts,
		logger:    logger,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), middleware.SessionID(r.Context()), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.auth.Register(r.Context(), middleware.SessionID(r.Context()), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), middleware.SessionID(r.Context())); err != nil {
		response.FromError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Account handles GET /account. The session is taken from the bearer token.
func (h *AuthHandler) Account(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, http.StatusUnauthorized, domain.ErrUnauthenticated)
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), claims.SessionID, claims.Subject)
	if err != nil {
		response.FromError(w, err)
		return
	}

	orders, err := h.checkouts.ListBySession(r.Context(), claims.SessionID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, &dto.AccountResponse{
		User:   dto.ToUserResponse(user),
		Orders: orders,
	})
}
