package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/utafrali/MarketplaceGo/internal/config"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
)

// TokenUsage distinguishes the two token classes. A token minted for one
// usage never verifies for the other.
type TokenUsage string

const (
	UsageAccess  TokenUsage = "access"
	UsageRefresh TokenUsage = "refresh"
)

// Claims is the signed payload of every token.
type Claims struct {
	Usage TokenUsage `json:"usage"`
	jwt.RegisteredClaims
}

type usageParams struct {
	secret []byte
	expiry time.Duration
}

// TokenService mints and verifies signed tokens. It is stateless: no token
// is stored, and verification needs only the secrets.
type TokenService struct {
	usages map[TokenUsage]usageParams
	issuer string
	now    func() time.Time
}

// NewTokenService builds a service from the configured per-usage secrets.
func NewTokenService(cfg config.TokenConfig) *TokenService {
	return &TokenService{
		usages: map[TokenUsage]usageParams{
			UsageAccess:  {secret: []byte(cfg.AccessSecret), expiry: cfg.AccessExpiry},
			UsageRefresh: {secret: []byte(cfg.RefreshSecret), expiry: cfg.RefreshExpiry},
		},
		issuer: cfg.Issuer,
		now:    time.Now,
	}
}

// AccessExpiry returns the configured access token lifetime.
func (s *TokenService) AccessExpiry() time.Duration {
	return s.usages[UsageAccess].expiry
}

// Issue mints a token of the given usage for subject.
func (s *TokenService) Issue(subject uuid.UUID, usage TokenUsage) (string, error) {
	params, ok := s.usages[usage]
	if !ok {
		return "", fmt.Errorf("unknown token usage %q", usage)
	}

	now := s.now().UTC()
	claims := Claims{
		Usage: usage,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(params.expiry)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(params.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", usage, err)
	}
	return signed, nil
}

// IssuePair mints a fresh access and refresh token for subject.
func (s *TokenService) IssuePair(subject uuid.UUID) (access, refresh string, err error) {
	access, err = s.Issue(subject, UsageAccess)
	if err != nil {
		return "", "", err
	}
	refresh, err = s.Issue(subject, UsageRefresh)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Verify checks signature, expiry and usage, returning the subject ID.
// Expired tokens map to TokenExpired; every other failure, including a usage
// mismatch, collapses to TokenInvalid so callers learn nothing about why.
func (s *TokenService) Verify(tokenString string, usage TokenUsage) (uuid.UUID, error) {
	params, ok := s.usages[usage]
	if !ok {
		return uuid.Nil, fmt.Errorf("unknown token usage %q", usage)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return params.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, apperrors.TokenExpired()
		}
		return uuid.Nil, apperrors.TokenInvalid()
	}

	if claims.Usage != usage {
		return uuid.Nil, apperrors.TokenInvalid()
	}

	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.TokenInvalid()
	}

	return subject, nil
}
