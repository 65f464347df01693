//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	catalogHTTP "github.com/tair/lumina-storefront/internal/catalog/delivery/http"
	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/internal/catalog/usecase/query"
	"github.com/tair/lumina-storefront/internal/events"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/internal/storefront"
	storefrontHTTP "github.com/tair/lumina-storefront/internal/storefront/delivery/http"
)

// Catalog query handlers
var CatalogQuerySet = wire.NewSet(
	query.NewListProductsHandler,
	query.NewGetProductHandler,
	query.NewListReviewsHandler,
	query.NewListRelatedHandler,
)

var HandlerSet = wire.NewSet(
	CatalogQuerySet,
	catalogHTTP.NewCatalogHandlerWithDI,
	storefront.NewDashboard,
	storefrontHTTP.NewStorefrontHandler,
	wire.Struct(new(handlers), "*"),
)

// initializeHandlers builds the catalog and storefront HTTP handlers
func initializeHandlers(
	repo domain.CatalogRepository,
	registry *storefront.Registry,
	popularity *events.Popularity,
	replier storefrontHTTP.Replier,
	metrics *web.Metrics,
) (*handlers, error) {
	wire.Build(HandlerSet)
	return nil, nil
}
