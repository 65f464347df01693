package query

import (
	"context"
	"fmt"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// GetStatsQuery represents the query to get catalog statistics
type GetStatsQuery struct{}

// CatalogStats represents catalog statistics
type CatalogStats struct {
	TotalProducts   int64   `json:"total_products"`
	OutOfStock      int64   `json:"out_of_stock"`
	TotalStock      int64   `json:"total_stock"`
	AveragePrice    float64 `json:"average_price"`
	AverageRating   float64 `json:"average_rating"`
	TotalCategories int64   `json:"total_categories"`
}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo domain.CatalogRepository
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.CatalogRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, q GetStatsQuery) (*CatalogStats, error) {
	totalProducts, err := h.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product count: %w", err)
	}

	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	stats := &CatalogStats{TotalProducts: totalProducts}
	var totalPrice, totalRating float64
	categories := make(map[string]bool)

	for _, product := range products {
		if !product.InStock() {
			stats.OutOfStock++
		}
		stats.TotalStock += int64(product.Stock)
		totalPrice += product.Price
		totalRating += product.Rating
		if product.Category != "" {
			categories[product.Category] = true
		}
	}

	if n := len(products); n > 0 {
		stats.AveragePrice = totalPrice / float64(n)
		stats.AverageRating = totalRating / float64(n)
	}
	stats.TotalCategories = int64(len(categories))

	return stats, nil
}
