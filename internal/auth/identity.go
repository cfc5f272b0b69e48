package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
)

// SubjectStore looks up accounts during identity resolution.
type SubjectStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// IdentityResolver turns a bearer token into the live account it names.
// Every resolution hits the store, so a deleted account fails immediately
// even while its tokens are still unexpired.
type IdentityResolver struct {
	tokens *TokenService
	store  SubjectStore
}

// NewIdentityResolver wires the token service to the account store.
func NewIdentityResolver(tokens *TokenService, store SubjectStore) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, store: store}
}

// Resolve verifies tokenString as a token of the given usage and loads the
// subject. A token whose subject no longer exists yields IdentityNotFound.
func (r *IdentityResolver) Resolve(ctx context.Context, tokenString string, usage TokenUsage) (*domain.User, error) {
	subject, err := r.tokens.Verify(tokenString, usage)
	if err != nil {
		return nil, err
	}

	user, err := r.store.GetByID(ctx, subject)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.IdentityNotFound()
		}
		return nil, err
	}

	return user, nil
}
