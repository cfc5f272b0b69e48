package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/utafrali/MarketplaceGo/internal/auth"
	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/internal/event"
	"github.com/utafrali/MarketplaceGo/internal/repository"
	"github.com/utafrali/MarketplaceGo/pkg/logger"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
	"github.com/utafrali/MarketplaceGo/pkg/validator"
)

// ItemService manages each user's item catalog. Every operation takes the
// acting user; access to someone else's item fails the ownership check, not
// the lookup, so a present-but-foreign item answers 403 rather than 404.
type ItemService struct {
	items  repository.ItemRepository
	events event.Publisher
}

// NewItemService wires the item use cases.
func NewItemService(items repository.ItemRepository, events event.Publisher) *ItemService {
	return &ItemService{items: items, events: events}
}

// Create adds an item owned by actor.
func (s *ItemService) Create(ctx context.Context, actor *domain.User, req domain.CreateItemRequest) (*domain.Item, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	item := &domain.Item{
		ID:          uuid.New(),
		OwnerID:     actor.ID,
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("item created",
		slog.String("item_id", item.ID.String()),
		slog.String("owner_id", actor.ID.String()),
	)
	s.events.Publish(ctx, item.ID.String(), event.TypeItemCreated, map[string]string{
		"item_id":  item.ID.String(),
		"owner_id": actor.ID.String(),
	})
	return item, nil
}

// Get fetches one of actor's items.
func (s *ItemService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Item, error) {
	return s.getOwned(ctx, actor, id)
}

// List returns one page of actor's items. Other users' items are filtered
// out by the query itself.
func (s *ItemService) List(ctx context.Context, actor *domain.User, params pagination.Params) (pagination.Page[domain.Item], error) {
	items, total, err := s.items.ListByOwner(ctx, actor.ID, params)
	if err != nil {
		return pagination.Page[domain.Item]{}, err
	}
	return pagination.NewPage(items, int(total), params), nil
}

// Update patches one of actor's items. Nil request fields keep their current
// values.
func (s *ItemService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, req domain.UpdateItemRequest) (*domain.Item, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	item, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Brand != nil {
		item.Brand = *req.Brand
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, item.ID.String(), event.TypeItemUpdated, map[string]string{
		"item_id": item.ID.String(),
	})
	return item, nil
}

// Delete removes one of actor's items.
func (s *ItemService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	item, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.items.Delete(ctx, item.ID); err != nil {
		return err
	}

	s.events.Publish(ctx, item.ID.String(), event.TypeItemDeleted, map[string]string{
		"item_id": item.ID.String(),
	})
	return nil
}

// getOwned loads the item and enforces ownership. Existence is checked
// first: a missing item is 404, an existing foreign one is 403.
func (s *ItemService) getOwned(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(actor.ID, item.OwnerID); err != nil {
		return nil, err
	}
	return item, nil
}
