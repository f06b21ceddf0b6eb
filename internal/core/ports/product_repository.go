package ports

import (
	"context"

	"github.com/martshop/store-api/internal/core/domain"
)

// ListProductsFilter carries all query parameters for listing products.
// Nil price bounds mean "no bound". Results are always ordered by price;
// PriceDesc flips the direction (used by the category listing).
type ListProductsFilter struct {
	Category  string   // optional: exact match
	MinPrice  *float64 // optional: price >= MinPrice
	MaxPrice  *float64 // optional: price <= MaxPrice
	PriceDesc bool
	Page      int // 1-based
	Limit     int
}

// ProductRepository defines persistence operations for products.
// Soft-deleted products are excluded from every find operation.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// List returns a page of products matching filter and the total matching
	// count, independent of paging.
	List(ctx context.Context, filter ListProductsFilter) ([]*domain.Product, int64, error)
	Update(ctx context.Context, product *domain.Product) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error
}
