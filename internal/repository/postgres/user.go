// Package postgres implements the repository interfaces on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/pkg/database"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
)

const uniqueViolationCode = "23505"

// UserRepository is the PostgreSQL-backed account store.
type UserRepository struct {
	db     database.DBTX
	logger *slog.Logger
}

// NewUserRepository creates a user repository on db.
func NewUserRepository(db database.DBTX, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

// Create inserts the user, filling in timestamps.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return database.TraceQuery(ctx, r.logger, "user.create", func(ctx context.Context) error {
		now := time.Now().UTC()
		user.CreatedAt = now
		user.UpdatedAt = now

		_, err := r.db.Exec(ctx, `
			INSERT INTO users (id, email, name, age, birthday, avatar, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			user.ID, user.Email, user.Name, user.Age, user.Birthday, user.Avatar,
			user.PasswordHash, user.CreatedAt, user.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return apperrors.AlreadyExists("user", "email", user.Email)
			}
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
}

// GetByID fetches one user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := database.TraceQuery(ctx, r.logger, "user.get_by_id", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `
			SELECT id, email, name, age, birthday, avatar, password_hash, created_at, updated_at
			FROM users WHERE id = $1`, id,
		).Scan(&user.ID, &user.Email, &user.Name, &user.Age, &user.Birthday,
			&user.Avatar, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", id.String())
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &user, nil
}

// GetByEmail fetches one user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := database.TraceQuery(ctx, r.logger, "user.get_by_email", func(ctx context.Context) error {
		return r.db.QueryRow(ctx, `
			SELECT id, email, name, age, birthday, avatar, password_hash, created_at, updated_at
			FROM users WHERE email = $1`, email,
		).Scan(&user.ID, &user.Email, &user.Name, &user.Age, &user.Birthday,
			&user.Avatar, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &user, nil
}

// List returns one page of users ordered by registration time, plus the
// total count.
func (r *UserRepository) List(ctx context.Context, params pagination.Params) ([]domain.User, int64, error) {
	var (
		users []domain.User
		total int64
	)
	err := database.TraceQuery(ctx, r.logger, "user.list", func(ctx context.Context) error {
		if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
			return fmt.Errorf("count users: %w", err)
		}

		rows, err := r.db.Query(ctx, `
			SELECT id, email, name, age, birthday, avatar, password_hash, created_at, updated_at
			FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`,
			params.PageSize, params.Offset(),
		)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var user domain.User
			if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Age, &user.Birthday,
				&user.Avatar, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt); err != nil {
				return fmt.Errorf("scan user: %w", err)
			}
			users = append(users, user)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update writes the mutable profile fields and the password hash.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return database.TraceQuery(ctx, r.logger, "user.update", func(ctx context.Context) error {
		user.UpdatedAt = time.Now().UTC()

		tag, err := r.db.Exec(ctx, `
			UPDATE users SET name = $2, age = $3, birthday = $4, avatar = $5, password_hash = $6, updated_at = $7
			WHERE id = $1`,
			user.ID, user.Name, user.Age, user.Birthday, user.Avatar, user.PasswordHash, user.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("user", user.ID.String())
		}
		return nil
	})
}

// Delete removes the user and their items inside one transaction.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return database.TraceQuery(ctx, r.logger, "user.delete", func(ctx context.Context) error {
		tx, err := r.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin delete user: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if _, err := tx.Exec(ctx, `DELETE FROM items WHERE owner_id = $1`, id); err != nil {
			return fmt.Errorf("delete user items: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return apperrors.NotFound("user", id.String())
		}

		return tx.Commit(ctx)
	})
}
