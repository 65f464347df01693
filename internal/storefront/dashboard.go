package storefront

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	catalogquery "github.com/tair/lumina-storefront/internal/catalog/usecase/query"
	"github.com/tair/lumina-storefront/internal/events"
	"github.com/tair/lumina-storefront/internal/profile"
)

const popularLimit = 5

// PopularProduct is one row of the dashboard's popularity table.
type PopularProduct struct {
	events.ProductCount
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// AdminStats is the admin dashboard view.
type AdminStats struct {
	Revenue         decimal.Decimal  `json:"revenue"`
	Orders          int              `json:"orders"`
	Users           int              `json:"users"`
	Products        int64            `json:"products"`
	OutOfStock      int64            `json:"out_of_stock"`
	ActiveSessions  int              `json:"active_sessions"`
	CartItems       int              `json:"cart_items"`
	PopularProducts []PopularProduct `json:"popular_products"`
	RecentOrders    []profile.Order  `json:"recent_orders"`
}

// Dashboard computes admin statistics from the catalog, the cart event tally
// and the live sessions.
type Dashboard struct {
	catalog    domain.CatalogRepository
	stats      *catalogquery.GetStatsHandler
	popularity *events.Popularity
	registry   *Registry
}

// NewDashboard creates a dashboard. popularity may be nil.
func NewDashboard(catalog domain.CatalogRepository, popularity *events.Popularity, registry *Registry) *Dashboard {
	return &Dashboard{
		catalog:    catalog,
		stats:      catalogquery.NewGetStatsHandler(catalog),
		popularity: popularity,
		registry:   registry,
	}
}

// Stats builds the dashboard as seen from session s.
func (d *Dashboard) Stats(ctx context.Context, s *State) (*AdminStats, error) {
	catalogStats, err := d.stats.Handle(ctx, catalogquery.GetStatsQuery{})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog stats: %w", err)
	}

	orders := s.Orders()
	stats := &AdminStats{
		Revenue:         profile.Revenue(orders),
		Orders:          len(orders) + profile.ArchivedOrders,
		Users:           profile.DemoAccounts + profile.ArchivedAccounts,
		Products:        catalogStats.TotalProducts,
		OutOfStock:      catalogStats.OutOfStock,
		ActiveSessions:  d.registry.Len(),
		CartItems:       d.registry.CartItems(),
		PopularProducts: []PopularProduct{},
		RecentOrders:    orders,
	}

	if d.popularity == nil {
		return stats, nil
	}
	for _, row := range d.popularity.Top(popularLimit) {
		p, err := d.catalog.FindByID(ctx, row.ProductID)
		if err != nil {
			// listings and deleted products have no catalog entry
			continue
		}
		stats.PopularProducts = append(stats.PopularProducts, PopularProduct{
			ProductCount: row,
			Name:         p.Name,
			Price:        p.Price,
		})
	}
	return stats, nil
}
