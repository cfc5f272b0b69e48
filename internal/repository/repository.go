// Package repository defines the persistence interfaces the services depend
// on.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
)

// UserRepository persists accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, params pagination.Params) ([]domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete removes the user and all their items in one transaction.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ItemRepository persists catalog items. List and lookup are always scoped
// by owner at the query level.
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]domain.Item, int64, error)
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
}
