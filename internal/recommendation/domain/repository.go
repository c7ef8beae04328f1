package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository persists tracked products.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *TrackedProduct) error
	List(ctx context.Context, db *gorm.DB) ([]TrackedProduct, error)
	FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*TrackedProduct, error)
}
