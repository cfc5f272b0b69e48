package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if user := args.Get(0); user != nil {
		return user.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context, params pagination.Params) ([]domain.User, int64, error) {
	args := m.Called(ctx, params)
	var users []domain.User
	if v := args.Get(0); v != nil {
		users = v.([]domain.User)
	}
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockItemRepo struct {
	mock.Mock
}

func (m *mockItemRepo) Create(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	args := m.Called(ctx, id)
	if item := args.Get(0); item != nil {
		return item.(*domain.Item), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockItemRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]domain.Item, int64, error) {
	args := m.Called(ctx, ownerID, params)
	var items []domain.Item
	if v := args.Get(0); v != nil {
		items = v.([]domain.Item)
	}
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockItemRepo) Update(ctx context.Context, item *domain.Item) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	key       string
	eventType string
}

func (p *recordingPublisher) Publish(_ context.Context, key, eventType string, _ any) {
	p.events = append(p.events, publishedEvent{key: key, eventType: eventType})
}
