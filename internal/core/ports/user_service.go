package ports

import (
	"context"

	"github.com/martshop/store-api/internal/core/domain"
)

// CreateUserInput carries the fields accepted when creating a user.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string // defaults to "user" when empty
}

// UpdateUserInput carries a partial update: nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// ListUsersResult is returned by List.
type ListUsersResult struct {
	Items []*domain.User
	Total int64
	Page  int
	Limit int
}

// UserService defines use-case operations for users.
type UserService interface {
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, page, limit int) (*ListUsersResult, error)
	Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error)
	// Delete soft-deletes a user. Admins may delete anyone; any other
	// authenticated actor may only delete their own account.
	Delete(ctx context.Context, id, actorID, actorRole string) error
}
