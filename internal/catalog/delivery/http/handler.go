package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tair/lumina-storefront/internal/catalog/domain"
	"github.com/tair/lumina-storefront/internal/catalog/usecase/query"
	"github.com/tair/lumina-storefront/internal/platform/web"
	"github.com/tair/lumina-storefront/pkg/logger"
)

// CatalogHandler serves the read-only catalog API using the CQRS query handlers
type CatalogHandler struct {
	listHandler    *query.ListProductsHandler
	getHandler     *query.GetProductHandler
	reviewsHandler *query.ListReviewsHandler
	relatedHandler *query.ListRelatedHandler
	metrics        *web.Metrics
}

// NewCatalogHandler creates a new catalog handler (manual DI)
func NewCatalogHandler(repo domain.CatalogRepository, metrics *web.Metrics) *CatalogHandler {
	return NewCatalogHandlerWithDI(
		query.NewListProductsHandler(repo),
		query.NewGetProductHandler(repo),
		query.NewListReviewsHandler(repo),
		query.NewListRelatedHandler(repo),
		metrics,
	)
}

// NewCatalogHandlerWithDI creates a new catalog handler from prebuilt query handlers.
// This is used by Wire for automatic dependency injection
func NewCatalogHandlerWithDI(
	listHandler *query.ListProductsHandler,
	getHandler *query.GetProductHandler,
	reviewsHandler *query.ListReviewsHandler,
	relatedHandler *query.ListRelatedHandler,
	metrics *web.Metrics,
) *CatalogHandler {
	return &CatalogHandler{
		listHandler:    listHandler,
		getHandler:     getHandler,
		reviewsHandler: reviewsHandler,
		relatedHandler: relatedHandler,
		metrics:        metrics,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/products", h.metrics.Wrap("/api/products", h.ListProducts)).Methods("GET")
	router.HandleFunc("/api/products/{id}", h.metrics.Wrap("/api/products/{id}", h.GetProduct)).Methods("GET")
	router.HandleFunc("/api/products/{id}/reviews", h.metrics.Wrap("/api/products/{id}/reviews", h.ListReviews)).Methods("GET")
	router.HandleFunc("/api/products/{id}/related", h.metrics.Wrap("/api/products/{id}/related", h.ListRelated)).Methods("GET")
	router.HandleFunc("/api/categories", h.metrics.Wrap("/api/categories", h.ListCategories)).Methods("GET")
	router.HandleFunc("/api/colors", h.metrics.Wrap("/api/colors", h.ListColors)).Methods("GET")
}

// ListProducts handles GET /api/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	spec, err := FilterSpecFromQuery(r.URL.Query())
	if err != nil {
		web.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	page, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{Filters: spec})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list products")
		web.RespondError(w, http.StatusInternalServerError, "Failed to list products")
		return
	}

	web.RespondData(w, http.StatusOK, page)
}

// GetProduct handles GET /api/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
	if err != nil {
		respondLookupError(w, r, err)
		return
	}

	web.RespondData(w, http.StatusOK, product)
}

// ListReviews handles GET /api/products/{id}/reviews
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	reviews, err := h.reviewsHandler.Handle(r.Context(), query.ListReviewsQuery{ProductID: id})
	if err != nil {
		logger.Error(r.Context()).Err(err).Uint("product_id", id).Msg("Failed to list reviews")
		web.RespondError(w, http.StatusInternalServerError, "Failed to list reviews")
		return
	}

	web.RespondData(w, http.StatusOK, reviews)
}

// ListRelated handles GET /api/products/{id}/related
func (h *CatalogHandler) ListRelated(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	related, err := h.relatedHandler.Handle(r.Context(), query.ListRelatedQuery{ProductID: id})
	if err != nil {
		respondLookupError(w, r, err)
		return
	}

	web.RespondData(w, http.StatusOK, related)
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	web.RespondData(w, http.StatusOK, domain.CategoryVisuals)
}

// ListColors handles GET /api/colors
func (h *CatalogHandler) ListColors(w http.ResponseWriter, r *http.Request) {
	web.RespondData(w, http.StatusOK, domain.Colors)
}

func productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		web.RespondError(w, http.StatusBadRequest, "Invalid product ID")
		return 0, false
	}
	return uint(id), true
}

func respondLookupError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		web.RespondError(w, http.StatusNotFound, "Product not found")
		return
	}
	logger.Error(r.Context()).Err(err).Msg("Failed to load product")
	web.RespondError(w, http.StatusInternalServerError, "Failed to load product")
}
