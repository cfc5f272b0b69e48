package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/internal/event"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
)

func newItemService(items *mockItemRepo) (*ItemService, *recordingPublisher) {
	events := &recordingPublisher{}
	return NewItemService(items, events), events
}

func TestItemService_Create(t *testing.T) {
	items := &mockItemRepo{}
	svc, events := newItemService(items)
	actor := &domain.User{ID: uuid.New()}

	items.On("Create", mock.Anything, mock.MatchedBy(func(i *domain.Item) bool {
		return i.OwnerID == actor.ID && i.Name == "Keyboard"
	})).Return(nil)

	item, err := svc.Create(context.Background(), actor, domain.CreateItemRequest{
		Name:  "Keyboard",
		Brand: "Keychron",
		Price: 12900,
		Stock: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, actor.ID, item.OwnerID)

	require.Len(t, events.events, 1)
	assert.Equal(t, event.TypeItemCreated, events.events[0].eventType)
}

func TestItemService_Create_RejectsNonPositivePrice(t *testing.T) {
	items := &mockItemRepo{}
	svc, _ := newItemService(items)

	for _, price := range []int64{0, -5} {
		_, err := svc.Create(context.Background(), &domain.User{ID: uuid.New()},
			domain.CreateItemRequest{Name: "Keyboard", Brand: "Keychron", Price: price})
		require.Error(t, err, "price %d", price)
	}
	items.AssertNotCalled(t, "Create")
}

func TestItemService_Get_ForeignItemIsForbidden(t *testing.T) {
	items := &mockItemRepo{}
	svc, _ := newItemService(items)

	owner := uuid.New()
	stranger := &domain.User{ID: uuid.New()}
	itemID := uuid.New()

	items.On("GetByID", mock.Anything, itemID).
		Return(&domain.Item{ID: itemID, OwnerID: owner}, nil)

	_, err := svc.Get(context.Background(), stranger, itemID)
	assert.True(t, errors.Is(err, apperrors.ErrOwnership))
	assert.Equal(t, 403, apperrors.HTTPStatus(err))
}

func TestItemService_Get_MissingItemIsNotFound(t *testing.T) {
	items := &mockItemRepo{}
	svc, _ := newItemService(items)
	itemID := uuid.New()

	items.On("GetByID", mock.Anything, itemID).
		Return(nil, apperrors.NotFound("item", itemID.String()))

	_, err := svc.Get(context.Background(), &domain.User{ID: uuid.New()}, itemID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, 404, apperrors.HTTPStatus(err))
}

func TestItemService_List_ScopedToActor(t *testing.T) {
	items := &mockItemRepo{}
	svc, _ := newItemService(items)
	actor := &domain.User{ID: uuid.New()}
	params := pagination.Default()

	items.On("ListByOwner", mock.Anything, actor.ID, params).
		Return([]domain.Item{{ID: uuid.New(), OwnerID: actor.ID}}, int64(1), nil)

	page, err := svc.List(context.Background(), actor, params)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	items.AssertExpectations(t)
}

func TestItemService_Update_PartialPatch(t *testing.T) {
	items := &mockItemRepo{}
	svc, events := newItemService(items)
	actor := &domain.User{ID: uuid.New()}
	itemID := uuid.New()

	items.On("GetByID", mock.Anything, itemID).Return(&domain.Item{
		ID:          itemID,
		OwnerID:     actor.ID,
		Name:        "Keyboard",
		Brand:       "Keychron",
		Description: "Tenkeyless",
		Price:       12900,
		Stock:       3,
	}, nil)
	items.On("Update", mock.Anything, mock.Anything).Return(nil)

	newPrice := int64(9900)
	updated, err := svc.Update(context.Background(), actor, itemID, domain.UpdateItemRequest{Price: &newPrice})
	require.NoError(t, err)

	assert.Equal(t, int64(9900), updated.Price)
	assert.Equal(t, "Keyboard", updated.Name)
	assert.Equal(t, "Keychron", updated.Brand)
	assert.Equal(t, "Tenkeyless", updated.Description)
	assert.Equal(t, int64(3), updated.Stock)
	require.Len(t, events.events, 1)
	assert.Equal(t, event.TypeItemUpdated, events.events[0].eventType)
}

func TestItemService_Update_ForeignItemIsForbidden(t *testing.T) {
	items := &mockItemRepo{}
	svc, _ := newItemService(items)
	itemID := uuid.New()

	items.On("GetByID", mock.Anything, itemID).
		Return(&domain.Item{ID: itemID, OwnerID: uuid.New()}, nil)

	newName := "Hijacked"
	_, err := svc.Update(context.Background(), &domain.User{ID: uuid.New()}, itemID,
		domain.UpdateItemRequest{Name: &newName})
	assert.True(t, errors.Is(err, apperrors.ErrOwnership))
	items.AssertNotCalled(t, "Update")
}

func TestItemService_Delete_ForeignItemIsForbidden(t *testing.T) {
	items := &mockItemRepo{}
	svc, events := newItemService(items)
	itemID := uuid.New()

	items.On("GetByID", mock.Anything, itemID).
		Return(&domain.Item{ID: itemID, OwnerID: uuid.New()}, nil)

	err := svc.Delete(context.Background(), &domain.User{ID: uuid.New()}, itemID)
	assert.True(t, errors.Is(err, apperrors.ErrOwnership))
	items.AssertNotCalled(t, "Delete")
	assert.Empty(t, events.events)
}

func TestItemService_Delete(t *testing.T) {
	items := &mockItemRepo{}
	svc, events := newItemService(items)
	actor := &domain.User{ID: uuid.New()}
	itemID := uuid.New()

	items.On("GetByID", mock.Anything, itemID).
		Return(&domain.Item{ID: itemID, OwnerID: actor.ID}, nil)
	items.On("Delete", mock.Anything, itemID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), actor, itemID))
	require.Len(t, events.events, 1)
	assert.Equal(t, event.TypeItemDeleted, events.events[0].eventType)
}
