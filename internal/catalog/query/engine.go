// Package query implements the pure filter/sort/paginate pipeline that backs
// every product listing.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// Apply runs spec against products and returns the requested page together with
// the number of products that matched before pagination. products is never
// modified.
func Apply(spec domain.FilterSpec, products []domain.Product) domain.Page {
	matched := make([]domain.Product, 0, len(products))
	search := strings.ToLower(strings.TrimSpace(spec.Search))

	for i := range products {
		p := &products[i]
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if spec.Category != "" && spec.Category != domain.CategoryAll && p.Category != spec.Category {
			continue
		}
		if spec.MinPrice != nil && p.Price < *spec.MinPrice {
			continue
		}
		if spec.MaxPrice != nil && p.Price > *spec.MaxPrice {
			continue
		}
		if spec.MinRating != nil && p.Rating < *spec.MinRating {
			continue
		}
		if spec.Color != "" && !p.HasColor(spec.Color) {
			continue
		}
		if spec.InStockOnly && !p.InStock() {
			continue
		}
		matched = append(matched, *p)
	}

	sortProducts(matched, spec.SortBy)

	total := len(matched)
	if spec.Page != nil && spec.Limit != nil {
		matched = paginate(matched, *spec.Page, *spec.Limit)
	}

	return domain.Page{Items: matched, Total: total}
}

func matchesSearch(p *domain.Product, term string) bool {
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(p.Category), term)
}

func sortProducts(products []domain.Product, order domain.SortOrder) {
	var by func(a, b domain.Product) int
	switch order {
	case domain.SortPriceLowHigh:
		by = func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) }
	case domain.SortPriceHighLow:
		by = func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) }
	case domain.SortTopRated:
		by = func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	case domain.SortNewest:
		by = func(a, b domain.Product) int { return cmp.Compare(b.ID, a.ID) }
	default:
		return
	}
	slices.SortStableFunc(products, by)
}

func paginate(products []domain.Product, page, limit int) []domain.Product {
	if page < 1 || limit < 1 || len(products) == 0 {
		return []domain.Product{}
	}
	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page-1 > (len(products)-1)/limit {
		return []domain.Product{}
	}
	start := (page - 1) * limit
	end := start + min(limit, len(products)-start)
	return products[start:end]
}
