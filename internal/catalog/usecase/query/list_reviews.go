package query

import (
	"context"
	"fmt"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// ListReviewsQuery represents the query to list the reviews of a product
type ListReviewsQuery struct {
	ProductID uint
}

// ListReviewsHandler handles list reviews query
type ListReviewsHandler struct {
	repo domain.CatalogRepository
}

// NewListReviewsHandler creates a new list reviews handler
func NewListReviewsHandler(repo domain.CatalogRepository) *ListReviewsHandler {
	return &ListReviewsHandler{repo: repo}
}

// Handle executes the list reviews query. Products without reviews get an
// empty, non-nil slice.
func (h *ListReviewsHandler) Handle(ctx context.Context, q ListReviewsQuery) ([]domain.Review, error) {
	reviews, err := h.repo.FindReviews(ctx, q.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}

	return reviews, nil
}
