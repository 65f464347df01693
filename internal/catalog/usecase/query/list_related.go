package query

import (
	"context"
	"fmt"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// MaxRelated caps the "you may also like" strip.
const MaxRelated = 5

// ListRelatedQuery represents the query to list products related to one product
type ListRelatedQuery struct {
	ProductID uint
}

// ListRelatedHandler handles list related query
type ListRelatedHandler struct {
	repo domain.CatalogRepository
}

// NewListRelatedHandler creates a new list related handler
func NewListRelatedHandler(repo domain.CatalogRepository) *ListRelatedHandler {
	return &ListRelatedHandler{repo: repo}
}

// Handle returns up to MaxRelated products sharing the product's category,
// excluding the product itself, in catalog order.
func (h *ListRelatedHandler) Handle(ctx context.Context, q ListRelatedQuery) ([]domain.Product, error) {
	product, err := h.repo.FindByID(ctx, q.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product %d: %w", q.ProductID, err)
	}

	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	related := make([]domain.Product, 0, MaxRelated)
	for _, p := range products {
		if p.Category != product.Category || p.ID == product.ID {
			continue
		}
		related = append(related, p)
		if len(related) == MaxRelated {
			break
		}
	}

	return related, nil
}
