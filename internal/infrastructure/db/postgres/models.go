package postgres

import (
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/martshop/store-api/internal/core/domain"
)

// Persistence-local records. Domain types never carry gorm tags; the
// conversion happens at this boundary in both directions.

type userRecord struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:255;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:16;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           strconv.FormatUint(uint64(r.ID), 10),
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		DeletedAt:    deletedAtPtr(r.DeletedAt),
	}
}

type productRecord struct {
	ID        uint    `gorm:"primaryKey"`
	Name      string  `gorm:"size:255;not null;index"`
	Category  string  `gorm:"size:255;index"`
	Price     float64 `gorm:"not null;index"`
	Quantity  int     `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (productRecord) TableName() string { return "products" }

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:        strconv.FormatUint(uint64(r.ID), 10),
		Name:      r.Name,
		Category:  r.Category,
		Price:     r.Price,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
		DeletedAt: deletedAtPtr(r.DeletedAt),
	}
}

func deletedAtPtr(d gorm.DeletedAt) *time.Time {
	if !d.Valid {
		return nil
	}
	t := d.Time.UTC()
	return &t
}

// parseID converts a route id into the serial primary key. Non-numeric ids
// can never match a row, so they report absence rather than an error.
func parseID(id string) (uint, bool) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
