package http

import (
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
)

// FilterSpecFromQuery reads a FilterSpec from query parameters. Absent
// parameters stay unset; category defaults to "All".
func FilterSpecFromQuery(values url.Values) (domain.FilterSpec, error) {
	spec := domain.FilterSpec{
		Category: values.Get("category"),
		Color:    values.Get("color"),
		Search:   values.Get("search"),
		SortBy:   domain.SortOrder(values.Get("sort_by")),
	}
	if spec.Category == "" {
		spec.Category = domain.CategoryAll
	}

	var err error
	if spec.MinPrice, err = optionalFloat(values, "min_price"); err != nil {
		return spec, err
	}
	if spec.MaxPrice, err = optionalFloat(values, "max_price"); err != nil {
		return spec, err
	}
	if spec.MinRating, err = optionalFloat(values, "min_rating"); err != nil {
		return spec, err
	}
	if spec.Page, err = optionalInt(values, "page"); err != nil {
		return spec, err
	}
	if spec.Limit, err = optionalInt(values, "limit"); err != nil {
		return spec, err
	}
	if raw := values.Get("in_stock_only"); raw != "" {
		if spec.InStockOnly, err = strconv.ParseBool(raw); err != nil {
			return spec, fmt.Errorf("invalid in_stock_only: %q", raw)
		}
	}

	return spec, nil
}

func optionalFloat(values url.Values, key string) (*float64, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}

func optionalInt(values url.Values, key string) (*int, error) {
	raw := values.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}
