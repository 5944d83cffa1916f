package repository

import (
	"context"

	"github.com/amrahulsaini/casebuddy-sub000/models"

	"gorm.io/gorm"
)

// ProductRepository exposes the catalog reads the reconciler needs.
type ProductRepository interface {
	FindImageByName(ctx context.Context, name string) (string, error)
}

// GormProductRepository implements ProductRepository using GORM.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository.
func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) FindImageByName(ctx context.Context, name string) (string, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&p).Error; err != nil {
		return "", err
	}
	return p.Image, nil
}
