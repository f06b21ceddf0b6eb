package handler

import "github.com/martshop/store-api/internal/core/domain"

// --- Request types ---

type createProductRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Category string  `json:"category"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
}

// updateProductRequest is a partial update; see updateUserRequest for the
// omitnil convention.
type updateProductRequest struct {
	Name     *string  `json:"name"     validate:"omitnil,min=1"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"    validate:"omitnil,gt=0"`
	Quantity *int     `json:"quantity" validate:"omitnil,gte=0"`
}

// --- Response types ---

type productResponse struct {
	Product *domain.Product `json:"product"`
	Message string          `json:"message,omitempty"`
}

type listProductsResponse struct {
	TotalProducts   int64             `json:"totalProducts"`
	CurrentPage     int               `json:"currentPage"`
	ProductsPerPage int               `json:"productsPerPage"`
	Products        []*domain.Product `json:"products"`
}

type categoryProductsResponse struct {
	Products []*domain.Product `json:"products"`
}
