package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/pkg/logger"
)

type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Review{})
}

// Seed loads the fixed catalog into an empty products table.
func (r *GormCatalogRepository) Seed(ctx context.Context) error {
	count, err := r.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := domain.SeedProducts()
		if err := tx.Create(&products).Error; err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
		reviews := domain.SeedReviews()
		if err := tx.Create(&reviews).Error; err != nil {
			return fmt.Errorf("failed to seed reviews: %w", err)
		}
		logger.Logger.Info().
			Int("products", len(products)).
			Int("reviews", len(reviews)).
			Msg("Catalog seeded")
		return nil
	})
}

func (r *GormCatalogRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Order("id").Find(&products).Error
	return products, err
}

func (r *GormCatalogRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormCatalogRepository) FindReviews(ctx context.Context, productID uint) ([]domain.Review, error) {
	reviews := []domain.Review{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&reviews).Error
	return reviews, err
}

func (r *GormCatalogRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, err
}
