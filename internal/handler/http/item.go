package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/internal/service"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
	"github.com/utafrali/MarketplaceGo/pkg/httputil"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
)

// ItemHandler serves each user's item catalog. Every route requires
// authentication; routes taking an item ID answer 404 for a missing item and
// 403 for someone else's.
type ItemHandler struct {
	items *service.ItemService
}

// NewItemHandler creates the handler.
func NewItemHandler(items *service.ItemService) *ItemHandler {
	return &ItemHandler{items: items}
}

// Create handles POST /api/v1/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.TokenInvalid())
		return
	}

	var req domain.CreateItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	item, err := h.items.Create(r.Context(), user, req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, item)
}

// List handles GET /api/v1/items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.TokenInvalid())
		return
	}

	page, err := h.items.List(r.Context(), user, pagination.FromRequest(r))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// Get handles GET /api/v1/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.TokenInvalid())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid item id"))
		return
	}

	item, err := h.items.Get(r.Context(), user, id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}

// Update handles PATCH /api/v1/items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.TokenInvalid())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid item id"))
		return
	}

	var req domain.UpdateItemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	item, err := h.items.Update(r.Context(), user, id, req)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, r, apperrors.TokenInvalid())
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid item id"))
		return
	}

	if err := h.items.Delete(r.Context(), user, id); err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	httputil.WriteJSON(w, http.StatusNoContent, nil)
}
