// Package service implements the application use cases on top of the
// repositories and the auth core.
package service

import (
	"context"
	"log/slog"

	"github.com/utafrali/MarketplaceGo/internal/auth"
	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/internal/repository"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
	"github.com/utafrali/MarketplaceGo/pkg/logger"
	"github.com/utafrali/MarketplaceGo/pkg/validator"
)

// AuthService handles login and token refresh.
type AuthService struct {
	users    repository.UserRepository
	hasher   *auth.Hasher
	tokens   *auth.TokenService
	resolver *auth.IdentityResolver
}

// NewAuthService wires the auth use cases.
func NewAuthService(users repository.UserRepository, hasher *auth.Hasher, tokens *auth.TokenService, resolver *auth.IdentityResolver) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, resolver: resolver}
}

// Login exchanges credentials for a token pair. An unknown email and a wrong
// password produce the identical error.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenPair, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.IncorrectCredentials()
		}
		return nil, err
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !ok {
		return nil, apperrors.IncorrectCredentials()
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user logged in", slog.String("user_id", user.ID.String()))
	return pair, nil
}

// Refresh exchanges a valid refresh token for a brand new pair. The old
// refresh token is not revoked; both remain valid until they expire.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	user, err := s.resolver.Resolve(ctx, refreshToken, auth.UsageRefresh)
	if err != nil {
		return nil, err
	}
	return s.issuePair(user)
}

// Identify resolves an access token to the live account it names.
func (s *AuthService) Identify(ctx context.Context, accessToken string) (*domain.User, error) {
	return s.resolver.Resolve(ctx, accessToken, auth.UsageAccess)
}

func (s *AuthService) issuePair(user *domain.User) (*domain.TokenPair, error) {
	access, refresh, err := s.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &domain.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.tokens.AccessExpiry().Seconds()),
	}, nil
}
