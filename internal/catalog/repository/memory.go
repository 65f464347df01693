package repository

import (
	"context"
	"slices"
	"time"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// MemoryCatalogRepository serves the fixed seed catalog from memory.
type MemoryCatalogRepository struct {
	products []domain.Product
	reviews  []domain.Review
	latency  time.Duration
}

// Option configures a MemoryCatalogRepository.
type Option func(*MemoryCatalogRepository)

// WithLatency delays every read by d, simulating a remote catalog.
func WithLatency(d time.Duration) Option {
	return func(r *MemoryCatalogRepository) {
		r.latency = d
	}
}

// WithProducts replaces the seed products.
func WithProducts(products []domain.Product) Option {
	return func(r *MemoryCatalogRepository) {
		r.products = products
	}
}

// NewMemoryCatalogRepository creates a repository over the seed catalog.
func NewMemoryCatalogRepository(opts ...Option) *MemoryCatalogRepository {
	r := &MemoryCatalogRepository{
		products: domain.SeedProducts(),
		reviews:  domain.SeedReviews(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryCatalogRepository) wait(ctx context.Context) error {
	if r.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(r.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// FindAll returns a copy of every product.
func (r *MemoryCatalogRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return slices.Clone(r.products), nil
}

// FindByID returns domain.ErrProductNotFound when no product has id.
func (r *MemoryCatalogRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	for _, p := range r.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// FindReviews returns the reviews of a product, never nil.
func (r *MemoryCatalogRepository) FindReviews(ctx context.Context, productID uint) ([]domain.Review, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	reviews := []domain.Review{}
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			reviews = append(reviews, rv)
		}
	}
	return reviews, nil
}

func (r *MemoryCatalogRepository) Count(ctx context.Context) (int64, error) {
	return int64(len(r.products)), ctx.Err()
}
