package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/martshop/store-api/internal/api/metrics"
	"github.com/martshop/store-api/internal/core/domain"
	"github.com/martshop/store-api/internal/core/ports"
	"github.com/martshop/store-api/pkg/password"
)

// AuthService implements registration and login on top of whichever user
// repository was selected at startup.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL, logger: logger}
}

// Register creates a new account with the default "user" role. The password
// is hashed here, before the repository ever sees it; neither backend stores
// or receives plaintext.
func (s *AuthService) Register(ctx context.Context, name, email, plaintext string) (*domain.User, error) {
	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserExists
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.UsersRegisteredTotal.Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login verifies credentials and issues a signed token. Unknown email,
// soft-deleted account, and wrong password all collapse into
// ErrInvalidCredentials so the response does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if user.Deleted() || !password.Verify(plaintext, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return token, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
