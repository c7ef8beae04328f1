package repository

import (
	"context"
	"errors"

	recdomain "github.com/labsupply/smartpricing/internal/recommendation/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() recdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *recdomain.TrackedProduct) error {
	return db.WithContext(ctx).Create(product).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]recdomain.TrackedProduct, error) {
	var products []recdomain.TrackedProduct
	err := db.WithContext(ctx).Order("created_at ASC").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repo) FindBySKU(ctx context.Context, db *gorm.DB, sku string) (*recdomain.TrackedProduct, error) {
	var product recdomain.TrackedProduct
	err := db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}
