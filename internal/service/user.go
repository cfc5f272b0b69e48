package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/utafrali/MarketplaceGo/internal/auth"
	"github.com/utafrali/MarketplaceGo/internal/domain"
	"github.com/utafrali/MarketplaceGo/internal/event"
	"github.com/utafrali/MarketplaceGo/internal/repository"
	apperrors "github.com/utafrali/MarketplaceGo/pkg/errors"
	"github.com/utafrali/MarketplaceGo/pkg/logger"
	"github.com/utafrali/MarketplaceGo/pkg/pagination"
	"github.com/utafrali/MarketplaceGo/pkg/validator"
)

// UserService implements account registration, profile management and the
// public user directory.
type UserService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	events event.Publisher
}

// NewUserService wires the user use cases.
func NewUserService(users repository.UserRepository, hasher *auth.Hasher, events event.Publisher) *UserService {
	return &UserService{users: users, hasher: hasher, events: events}
}

// Register creates a new account.
func (s *UserService) Register(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         req.Name,
		Age:          req.Age,
		Birthday:     req.Birthday,
		Avatar:       req.Avatar,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("user registered", slog.String("user_id", user.ID.String()))
	s.events.Publish(ctx, user.ID.String(), event.TypeUserRegistered, map[string]string{
		"user_id": user.ID.String(),
		"email":   user.Email,
	})

	return user, nil
}

// Get returns the public projection of any account.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// List returns one page of the public user directory.
func (s *UserService) List(ctx context.Context, params pagination.Params) (pagination.Page[domain.PublicUser], error) {
	users, total, err := s.users.List(ctx, params)
	if err != nil {
		return pagination.Page[domain.PublicUser]{}, err
	}

	public := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	return pagination.NewPage(public, int(total), params), nil
}

// UpdateProfile patches the caller's own profile. Nil request fields keep
// their current values.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, req domain.UpdateUserRequest) (*domain.User, error) {
	if err := validator.Validate(req); err != nil {
		return nil, err
	}

	if req.Name != nil {
		actor.Name = *req.Name
	}
	if req.Age != nil {
		actor.Age = *req.Age
	}
	if req.Birthday != nil {
		actor.Birthday = *req.Birthday
	}
	if req.Avatar != nil {
		actor.Avatar = *req.Avatar
	}

	if err := s.users.Update(ctx, actor); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, actor.ID.String(), event.TypeUserUpdated, map[string]string{
		"user_id": actor.ID.String(),
	})
	return actor, nil
}

// UpdatePassword replaces the caller's password. The access token is the
// only required proof, so no current-password check happens here.
func (s *UserService) UpdatePassword(ctx context.Context, actor *domain.User, req domain.UpdatePasswordRequest) error {
	if err := validator.Validate(req); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return apperrors.Internal(err)
	}
	actor.PasswordHash = hash

	if err := s.users.Update(ctx, actor); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("password changed", slog.String("user_id", actor.ID.String()))
	s.events.Publish(ctx, actor.ID.String(), event.TypePasswordChanged, map[string]string{
		"user_id": actor.ID.String(),
	})
	return nil
}

// Delete removes the caller's account along with every item they owned.
func (s *UserService) Delete(ctx context.Context, actor *domain.User) error {
	if err := s.users.Delete(ctx, actor.ID); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("user deleted", slog.String("user_id", actor.ID.String()))
	s.events.Publish(ctx, actor.ID.String(), event.TypeUserDeleted, map[string]string{
		"user_id": actor.ID.String(),
	})
	return nil
}
