package http

import (
	"net/http"

	"github.com/utafrali/MarketplaceGo/internal/config"
	"github.com/utafrali/MarketplaceGo/pkg/httputil"
)

// ConfigInfo is the non-sensitive runtime configuration exposed to clients.
type ConfigInfo struct {
	Environment        string `json:"environment"`
	ServiceName        string `json:"service_name"`
	AccessTokenExpiry  string `json:"access_token_expiry"`
	RefreshTokenExpiry string `json:"refresh_token_expiry"`
}

// ConfigHandler serves GET /api/v1/config. Secrets never appear here.
func ConfigHandler(cfg *config.Config) http.HandlerFunc {
	info := ConfigInfo{
		Environment:        cfg.Environment,
		ServiceName:        cfg.ServiceName,
		AccessTokenExpiry:  cfg.Token.AccessExpiry.String(),
		RefreshTokenExpiry: cfg.Token.RefreshExpiry.String(),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, info)
	}
}
