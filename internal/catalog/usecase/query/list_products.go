package query

import (
	"context"
	"fmt"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	engine "github.com/tair/lumina-storefront/internal/catalog/query"
)

// ListProductsQuery represents the query to list a filtered page of products
type ListProductsQuery struct {
	Filters domain.FilterSpec
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.CatalogRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.CatalogRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, q ListProductsQuery) (domain.Page, error) {
	products, err := h.repo.FindAll(ctx)
	if err != nil {
		return domain.Page{}, fmt.Errorf("failed to list products: %w", err)
	}

	return engine.Apply(q.Filters, products), nil
}
