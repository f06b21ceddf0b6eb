package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/martshop/store-api/internal/api/metrics"
	"github.com/martshop/store-api/internal/core/domain"
	"github.com/martshop/store-api/internal/core/ports"
)

// defaultCategoryLimit is the page size of the per-category listing.
const defaultCategoryLimit = 5

type ProductService struct {
	repo   ports.ProductRepository
	logger zerolog.Logger
}

func NewProductService(repo ports.ProductRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{repo: repo, logger: logger}
}

func (s *ProductService) Create(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	now := time.Now().UTC()
	product := &domain.Product{
		Name:      input.Name,
		Category:  input.Category,
		Price:     input.Price,
		Quantity:  input.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, err
	}

	category := created.Category
	if category == "" {
		category = "uncategorized"
	}
	metrics.ProductsCreatedTotal.WithLabelValues(category).Inc()
	s.logger.Info().Str("product_id", created.ID).Str("category", created.Category).Msg("product created")
	return created, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns a filtered page ordered by ascending price, plus the total
// matching count so callers can build pagination metadata.
func (s *ProductService) List(ctx context.Context, input ports.ListProductsInput) (*ports.ListProductsResult, error) {
	page, limit := normalizePaging(input.Page, input.Limit, defaultLimit)

	products, total, err := s.repo.List(ctx, ports.ListProductsFilter{
		Category: input.Category,
		MinPrice: input.MinPrice,
		MaxPrice: input.MaxPrice,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListProductsResult{Items: products, Total: total, Page: page, Limit: limit}, nil
}

// ListByCategory returns one category's products ordered by descending price.
func (s *ProductService) ListByCategory(ctx context.Context, category string, page, limit int) ([]*domain.Product, error) {
	page, limit = normalizePaging(page, limit, defaultCategoryLimit)

	products, _, err := s.repo.List(ctx, ports.ListProductsFilter{
		Category:  category,
		PriceDesc: true,
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Update(ctx context.Context, id string, input ports.UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	product.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("product_id", updated.ID).Msg("product updated")
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id).Msg("product deleted")
	return nil
}
