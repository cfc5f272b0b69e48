package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/pkg/database"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
)

// ItemRepository is the PostgreSQL-backed item store.
type ItemRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

// NewItemRepository creates an item repository on db.
func NewItemRepository(db database.DBTX, logger *slog.Logger) *ItemRepository {
	return &ItemRepository{db: db, logger: logger}
}

// Create inserts the item, filling in timestamps.
func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) error {
	return database.TraceQuery(ctx, r.logger, "item.create", func(ctx context.Context) error {
		now := time.Now().UTC()
		item.CreatedAt = now
		item.UpdatedAt = now

		_, err := r.db.Exec(ctx, `
			INSERT INTO items (id, owner_id, name, brand, description, price, stock, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			item.ID, item.OwnerID, item.Name, item.Brand, item.Description,
			item.Price, item.Stock, item.CreatedAt, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		return nil
	})
}

// GetByID fetches one item regardless of owner. Ownership is checked by the
// service so a foreign item can still answer 403 rather than 404.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	var item domain.Item
	err := database.TraceQuery(ctx, r.logger, "item.get_by_id", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `
			SELECT id, owner_id, name, brand, description, price, stock, created_at, updated_at
			FROM items WHERE id = $1`, id,
		).Scan(&item.ID, &item.OwnerID, &item.Name, &item.Brand, &item.Description,
			&item.Price, &item.Stock, &item.CreatedAt, &item.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("item", id.String())
		}
		return nil, fmt.Errorf("get item by id: %w", err)
	}
	return &item, nil
}

// ListByOwner returns one page of the owner's items plus the owner's total.
func (r *ItemRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]domain.Item, int64, error) {
	var (
		items []domain.Item
		total int64
	)
	err := database.TraceQuery(ctx, r.logger, "item.list_by_owner", func(ctx context.Context) error {
		if err := r.db.QueryRow(ctx,
			`SELECT count(*) FROM items WHERE owner_id = $1`, ownerID,
		).Scan(&total); err != nil {
			return fmt.Errorf("count items: %w", err)
		}

		rows, err := r.db.Query(ctx, `
			SELECT id, owner_id, name, brand, description, price, stock, created_at, updated_at
			FROM items WHERE owner_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
			ownerID, params.PageSize, params.Offset(),
		)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var item domain.Item
			if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name, &item.Brand, &item.Description,
				&item.Price, &item.Stock, &item.CreatedAt, &item.UpdatedAt); err != nil {
				return fmt.Errorf("scan item: %w", err)
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update writes the mutable item fields.
func (r *ItemRepository) Update(ctx context.Context, item *domain.Item) error {
	return database.TraceQuery(ctx, r.logger, "item.update", func(ctx context.Context) error {
		item.UpdatedAt = time.Now().UTC()

		tag, err := r.db.Exec(ctx, `
			UPDATE items SET name = $2, brand = $3, description = $4, price = $5, stock = $6, updated_at = $7
			WHERE id = $1`,
			item.ID, item.Name, item.Brand, item.Description, item.Price, item.Stock, item.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("item", item.ID.String())
		}
		return nil
	})
}

// Delete removes one item.
func (r *ItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.TraceQuery(ctx, r.logger, "item.delete", func(ctx context.Context) error {
		tag, err := r.db.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("item", id.String())
		}
		return nil
	})
}
