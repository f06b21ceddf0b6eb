package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/martshop/store-api/internal/core/domain"
	"github.com/martshop/store-api/internal/core/ports"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	rec := productRecord{
		Name:      product.Name,
		Category:  product.Category,
		Price:     product.Price,
		Quantity:  product.Quantity,
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	pk, ok := parseID(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	var rec productRecord
	err := r.db.WithContext(ctx).First(&rec, "id = ?", pk).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *ProductRepository) List(ctx context.Context, filter ports.ListProductsFilter) ([]*domain.Product, int64, error) {
	tx := r.db.WithContext(ctx).Model(&productRecord{})
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		tx = tx.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		tx = tx.Where("price <= ?", *filter.MaxPrice)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	order := "price asc, id asc"
	if filter.PriceDesc {
		order = "price desc, id asc"
	}

	offset := (filter.Page - 1) * filter.Limit
	var recs []productRecord
	if err := tx.Order(order).Offset(offset).Limit(filter.Limit).Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	products := make([]*domain.Product, len(recs))
	for i, rec := range recs {
		products[i] = rec.toDomain()
	}
	return products, total, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	pk, ok := parseID(product.ID)
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	res := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", pk).Updates(map[string]any{
		"name":       product.Name,
		"category":   product.Category,
		"price":      product.Price,
		"quantity":   product.Quantity,
		"updated_at": product.UpdatedAt,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	pk, ok := parseID(id)
	if !ok {
		return domain.ErrProductNotFound
	}

	res := r.db.WithContext(ctx).Delete(&productRecord{}, "id = ?", pk)
	if res.Error != nil {
		return fmt.Errorf("soft delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
