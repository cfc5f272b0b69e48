// Package http exposes the REST API.
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
	"github.com/utafrali/MarketplaceGo/pkg/httputil"
	"github.com/utafrali/MarketplaceGo/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "authenticated_user"

// Identifier resolves a bearer access token to the live account it names.
type Identifier interface {
	Identify(ctx context.Context, accessToken string) (*domain.User, error)
}

// BearerToken extracts the token from an Authorization header. The scheme
// comparison is case-insensitive.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperrors.TokenInvalid()
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", apperrors.TokenInvalid()
	}
	return token, nil
}

// Authenticate resolves the caller on every request and stores the account in
// the context. There is no caching: a deleted account is rejected even while
// its token is still unexpired.
func Authenticate(identifier Identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := BearerToken(r)
			if err != nil {
				httputil.WriteError(w, r, err)
				return
			}

			user, err := identifier.Identify(r.Context(), token)
			if err != nil {
				httputil.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			ctx = logger.WithUserID(ctx, user.ID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated account stored by Authenticate.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}
