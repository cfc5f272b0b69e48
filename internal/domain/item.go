package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a catalog entry owned by exactly one user.
type Item struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"`
	Stock       int64     `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateItemRequest adds an item to the caller's catalog. Price is in the
// smallest currency unit; stock defaults to zero.
type CreateItemRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Brand       string `json:"brand" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Stock       int64  `json:"stock" validate:"gte=0"`
}

// UpdateItemRequest patches an item. Nil fields stay untouched.
type UpdateItemRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Brand       *string `json:"brand" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Price       *int64  `json:"price" validate:"omitempty,gt=0"`
	Stock       *int64  `json:"stock" validate:"omitempty,gte=0"`
}
