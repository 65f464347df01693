package domain

// SortOrder selects the ordering of a result page.
type SortOrder string

const (
	SortNewest       SortOrder = "newest"
	SortPriceLowHigh SortOrder = "priceLowHigh"
	SortPriceHighLow SortOrder = "priceHighLow"
	SortTopRated     SortOrder = "topRated"
)

// DefaultPageSize is the storefront grid size.
const DefaultPageSize = 8

// FilterSpec is the full set of search, filter, sort and pagination choices.
// Nil pointers mean "not set".
type FilterSpec struct {
	Category    string    `json:"category"`
	MinPrice    *float64  `json:"min_price,omitempty"`
	MaxPrice    *float64  `json:"max_price,omitempty"`
	MinRating   *float64  `json:"min_rating,omitempty"`
	Color       string    `json:"color,omitempty"`
	Search      string    `json:"search,omitempty"`
	InStockOnly bool      `json:"in_stock_only"`
	SortBy      SortOrder `json:"sort_by,omitempty"`
	Page        *int      `json:"page,omitempty"`
	Limit       *int      `json:"limit,omitempty"`
}

// DefaultFilterSpec is the spec used when nothing was persisted.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		Category: CategoryAll,
		SortBy:   SortNewest,
	}
}

// WithPage returns a copy of f paginated to page/limit.
func (f FilterSpec) WithPage(page, limit int) FilterSpec {
	f.Page = &page
	f.Limit = &limit
	return f
}

// ActiveFilters counts the advanced filters that are set, matching the
// badge shown next to the filter toggle.
func (f FilterSpec) ActiveFilters() int {
	n := 0
	for _, set := range []bool{f.MinPrice != nil, f.MaxPrice != nil, f.MinRating != nil, f.Color != "", f.InStockOnly} {
		if set {
			n++
		}
	}
	return n
}

// Page is one result page plus the filtered total.
type Page struct {
	Items []Product `json:"products"`
	Total int       `json:"total"`
}
