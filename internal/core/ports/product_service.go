package ports

import (
	"context"

	"github.com/martshop/store-api/internal/core/domain"
)

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	Name     string
	Category string
	Price    float64
	Quantity int
}

// UpdateProductInput carries a partial update: nil fields are left untouched.
type UpdateProductInput struct {
	Name     *string
	Category *string
	Price    *float64
	Quantity *int
}

// ListProductsInput carries the query parameters of the public listing.
type ListProductsInput struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
}

// ListProductsResult is returned by List.
type ListProductsResult struct {
	Items []*domain.Product
	Total int64
	Page  int
	Limit int
}

// ProductService defines use-case operations for products.
type ProductService interface {
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	// List returns a filtered page ordered by ascending price.
	List(ctx context.Context, input ListProductsInput) (*ListProductsResult, error)
	// ListByCategory returns a page of one category ordered by descending price.
	ListByCategory(ctx context.Context, category string, page, limit int) ([]*domain.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}
