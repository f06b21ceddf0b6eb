package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/martshop/store-api/internal/core/domain"
	"github.com/martshop/store-api/internal/core/ports"
	"github.com/martshop/store-api/pkg/password"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type UserService struct {
	repo   ports.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// Create adds a new user. Like registration, the password is hashed exactly
// once here; the repositories only ever persist the hash.
func (s *UserService) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	role := input.Role
	if role == "" {
		role = domain.RoleUser
	}

	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Str("role", created.Role).Msg("user created")
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page, limit int) (*ports.ListUsersResult, error) {
	page, limit = normalizePaging(page, limit, defaultLimit)

	users, total, err := s.repo.List(ctx, ports.ListUsersFilter{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}

	return &ports.ListUsersResult{Items: users, Total: total, Page: page, Limit: limit}, nil
}

// Update merges the supplied fields over the stored record and re-persists
// it. A supplied password is re-hashed; absent fields are untouched.
func (s *UserService) Update(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Password != nil {
		hash, err := password.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", updated.ID).Msg("user updated")
	return updated, nil
}

// Delete soft-deletes a user. Admins may delete any account; everyone else
// only their own.
func (s *UserService) Delete(ctx context.Context, id, actorID, actorRole string) error {
	if actorRole != domain.RoleAdmin && actorID != id {
		return domain.ErrForbidden
	}

	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Str("actor_id", actorID).Msg("user deleted")
	return nil
}

// normalizePaging applies defaults and caps: page >= 1, 1 <= limit <= maxLimit.
func normalizePaging(page, limit, fallbackLimit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = fallbackLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
