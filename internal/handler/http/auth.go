package http

import (
	"net/http"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/internal/service"
	"github.com/utafrali/MarketplaceGo/pkg/httputil"
)

// AuthHandler serves login and token refresh.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	pair, err := h.auth.Login(r.Context(), req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pair)
}

// Refresh handles POST /api/v1/auth/refresh. The refresh token travels in
// the Authorization header, same as an access token would.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, err := BearerToken(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	pair, err := h.auth.Refresh(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, pair)
}
