package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/martshop/store-api/internal/core/domain"
	"github.com/martshop/store-api/internal/core/ports"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := userRecord{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	var rec userRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", pk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

// FindByEmail is unscoped so a soft-deleted account still reserves its email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Unscoped().First(&rec, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&userRecord{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	var recs []userRecord
	err := tx.Order("created_at desc, id desc").Offset(offset).Limit(filter.Limit).Find(&recs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]*domain.User, len(recs))
	for i, rec := range recs {
		users[i] = rec.toDomain()
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	pk, ok := parseID(user.ID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	res := r.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", pk).Updates(map[string]any{
		"name":          user.Name,
		"email":         user.Email,
		"password_hash": user.PasswordHash,
		"role":          user.Role,
		"updated_at":    user.UpdatedAt,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	pk, ok := parseID(id)
	if !ok {
		return domain.ErrUserNotFound
	}

	res := r.db.WithContext(ctx).Delete(&userRecord{}, "id = ?", pk)
	if res.Error != nil {
		return fmt.Errorf("soft delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
