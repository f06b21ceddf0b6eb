package ports

import (
	"context"

	"github.com/martshop/store-api/internal/core/domain"
)

// AuthService implements registration and login.
type AuthService interface {
	// Register creates a new account with the default "user" role.
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	// Login verifies credentials and returns a signed token on success.
	// Unknown email and wrong password are indistinguishable to the caller:
	// both yield domain.ErrInvalidCredentials.
	Login(ctx context.Context, email, password string) (string, error)
}
