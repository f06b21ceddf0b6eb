package domain

import "time"

// Product is a catalog entry. Price must be positive and quantity
// non-negative; both are enforced at the validation layer on create/update.
type Product struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	Price     float64    `json:"price"`
	Quantity  int        `json:"quantity"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"-"`
}
