package ports

import (
	"context"

	"github.com/martshop/store-api/internal/core/domain"
)

// ListUsersFilter carries paging parameters for listing users.
type ListUsersFilter struct {
	Page  int // 1-based
	Limit int // max rows per page
}

// UserRepository defines persistence operations for users. Implementations
// exist for both backends and are selected once at startup; callers never
// know which one they talk to.
//
// Absence is always signalled with domain.ErrUserNotFound, never a nil
// record. All find operations exclude soft-deleted users except FindByEmail,
// which is deliberately unscoped: a soft-deleted account still reserves its
// email address.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns a page of users and the total count of non-deleted users.
	List(ctx context.Context, filter ListUsersFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) error
}
